package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRewardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reward",
		Short: "Claim the daily reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RewardResult
			if err := client.Post("/api/v1/economy/reward", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Shop commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List items for sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ShopCatalog
			if err := client.Get("/api/v1/shop", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "buy <item>",
		Short: "Buy an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PurchaseResult
			if err := client.Post("/api/v1/shop/purchase", map[string]string{"item": args[0]}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}

func newInventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List owned items",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Inventory
			if err := client.Get("/api/v1/inventory", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "equip <index> <coordinate>",
		Short: "Bind an owned item to a map coordinate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}

			req := map[string]any{"index": index, "coordinate": args[1]}
			var result Equipped
			if err := client.Post("/api/v1/inventory/equip", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "World map commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the map and your position",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WorldMap
			if err := client.Get("/api/v1/map", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "move <cell>",
		Short: "Move to a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MoveResult
			if err := client.Post("/api/v1/map/move", map[string]string{"cell": args[0]}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}

func newBattleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battle",
		Short: "Battle commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current battle",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BattleStatus
			if err := client.Get("/api/v1/battle", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	for _, action := range []string{"attack", "defend", "retreat"} {
		cmd.AddCommand(&cobra.Command{
			Use:   action,
			Short: "Take the " + action + " action",
			RunE: func(cmd *cobra.Command, args []string) error {
				var result BattleTurn
				if err := client.Post("/api/v1/battle/"+action, nil, &result); err != nil {
					return err
				}

				NewOutput(cfg.Output).Print(result)
				return nil
			},
		})
	}

	return cmd
}

func newFriendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Friend commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result FriendList
			if err := client.Get("/api/v1/friends", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "duel <name>",
		Short: "Challenge a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BattleStatus
			if err := client.Post("/api/v1/friends/"+escape(args[0])+"/duel", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}
