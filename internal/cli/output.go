package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// stdout is where command results go; the root command points it at its
// configured output
var stdout io.Writer = os.Stdout

// NewOutput creates a new Output formatter writing to the command output
func NewOutput(format string) *Output {
	return NewOutputTo(format, stdout)
}

// NewOutputTo creates a new Output formatter writing to w
func NewOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case Session:
		o.printSession(v)
	case RewardResult:
		o.printReward(v)
	case ShopCatalog:
		o.printCatalog(v)
	case PurchaseResult:
		o.printPurchase(v)
	case Inventory:
		o.printInventory(v)
	case Equipped:
		o.printEquipped(v)
	case WorldMap:
		o.printMap(v)
	case MoveResult:
		o.printMove(v)
	case BattleStatus:
		o.printBattleStatus(v)
	case BattleTurn:
		o.printBattleTurn(v)
	case FriendList:
		o.printFriends(v)
	case OfflineResult:
		o.printf("Offline mode: %s\n", onOff(v.OfflineMode))
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	fmt.Fprintf(o.w, format, args...)
}

// Response types (match API)

// ClientResult is the issued client id
type ClientResult struct {
	ClientID string `json:"clientId"`
}

// Position is a map location
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Item is a shop or inventory item
type Item struct {
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Damage int    `json:"damage,omitempty"`
}

// Equipped is an item bound to a coordinate
type Equipped struct {
	Item       Item   `json:"item"`
	Coordinate string `json:"coordinate"`
}

// Account response type
type Account struct {
	Username    string     `json:"username"`
	Mode        string     `json:"mode"`
	Character   string     `json:"character"`
	Avatar      string     `json:"avatar,omitempty"`
	Email       string     `json:"email,omitempty"`
	Coins       int        `json:"coins"`
	Position    Position   `json:"position"`
	Inventory   []Item     `json:"inventory"`
	Equipped    *Equipped  `json:"equipped,omitempty"`
	OfflineMode bool       `json:"offlineMode"`
	Plus        bool       `json:"plus"`
	HasPassword bool       `json:"hasPassword"`
	LastReward  *time.Time `json:"lastReward,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// Session response type
type Session struct {
	Phase   string   `json:"phase"`
	Account *Account `json:"account,omitempty"`
}

// RewardResult response type
type RewardResult struct {
	Granted     bool `json:"granted"`
	Amount      int  `json:"amount,omitempty"`
	WaitMinutes int  `json:"waitMinutes,omitempty"`
	Balance     int  `json:"balance"`
}

// ShopCatalog response type
type ShopCatalog struct {
	Items []Item `json:"items"`
}

// PurchaseResult response type
type PurchaseResult struct {
	Item      Item   `json:"item"`
	Balance   int    `json:"balance"`
	Inventory []Item `json:"inventory"`
}

// Inventory response type
type Inventory struct {
	Items    []Item    `json:"items"`
	Equipped *Equipped `json:"equipped,omitempty"`
}

// Cell response type
type Cell struct {
	ID        string `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Forbidden bool   `json:"forbidden"`
	Battle    string `json:"battle,omitempty"`
	MonsterHP int    `json:"monsterHp,omitempty"`
}

// WorldMap response type
type WorldMap struct {
	Cells    []Cell   `json:"cells"`
	Position Position `json:"position"`
}

// Opponent response type
type Opponent struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Origin   string `json:"origin,omitempty"`
}

// BattleState response type
type BattleState struct {
	PlayerHealthPct   int      `json:"playerHealthPct"`
	OpponentHealthPct int      `json:"opponentHealthPct"`
	Opponent          Opponent `json:"opponent"`
	Turn              int      `json:"turn"`
}

// BattleStatus response type
type BattleStatus struct {
	Active bool         `json:"active"`
	State  *BattleState `json:"state,omitempty"`
}

// BattleTurn response type
type BattleTurn struct {
	State    BattleState `json:"state"`
	Outcome  string      `json:"outcome,omitempty"`
	Message  string      `json:"message,omitempty"`
	Position *Position   `json:"position,omitempty"`
}

// MoveResult response type
type MoveResult struct {
	Cell     Cell         `json:"cell"`
	Position Position     `json:"position"`
	Moved    bool         `json:"moved"`
	Battle   *BattleState `json:"battle,omitempty"`
}

// Friend response type
type Friend struct {
	Username string `json:"username"`
}

// FriendList response type
type FriendList struct {
	Friends []Friend `json:"friends"`
}

// OfflineResult response type
type OfflineResult struct {
	OfflineMode bool `json:"offlineMode"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (o *Output) printAccount(a Account) {
	o.printf("Player: %s (%s)\n", a.Username, a.Mode)
	o.printf("Character: %s\n", a.Character)
	o.printf("Coins: %d\n", a.Coins)
	o.printf("Position: (%d,%d)\n", a.Position.X, a.Position.Y)
	if a.Mode == "github" {
		o.printf("Plus: %s\n", onOff(a.Plus))
		o.printf("Offline mode: %s\n", onOff(a.OfflineMode))
	}
	if a.ExpiresAt != nil {
		o.printf("Test access expires: %s\n", a.ExpiresAt.Format(time.RFC1123))
	}
	if len(a.Inventory) > 0 {
		o.printf("Inventory: %d item(s)\n", len(a.Inventory))
	}
	if a.Equipped != nil {
		o.printEquipped(*a.Equipped)
	}
}

func (o *Output) printSession(s Session) {
	o.printf("Session: %s\n", strings.ReplaceAll(s.Phase, "_", " "))
	if s.Account != nil {
		o.printAccount(*s.Account)
	}
}

func (o *Output) printReward(r RewardResult) {
	if r.Granted {
		o.printf("You received %d coins!\n", r.Amount)
	} else {
		o.printf("Daily reward already claimed. Try again in %d minutes.\n", r.WaitMinutes)
	}
	o.printf("Balance: %d\n", r.Balance)
}

func (o *Output) printCatalog(c ShopCatalog) {
	for _, item := range c.Items {
		o.printf("  %-16s %4d coins  %3d dmg\n", item.Name, item.Price, item.Damage)
	}
}

func (o *Output) printPurchase(p PurchaseResult) {
	o.printf("Purchased %s\n", p.Item.Name)
	o.printf("Balance: %d\n", p.Balance)
}

func (o *Output) printInventory(inv Inventory) {
	if len(inv.Items) == 0 {
		o.printf("Inventory is empty\n")
	}
	for i, item := range inv.Items {
		o.printf("  [%d] %s (%d dmg)\n", i, item.Name, item.Damage)
	}
	if inv.Equipped != nil {
		o.printEquipped(*inv.Equipped)
	}
}

func (o *Output) printEquipped(e Equipped) {
	o.printf("Equipped: %s at %s\n", e.Item.Name, e.Coordinate)
}

func (o *Output) printMap(m WorldMap) {
	for _, c := range m.Cells {
		marker := " "
		if c.X == m.Position.X && c.Y == m.Position.Y {
			marker = "*"
		}
		notes := []string{}
		if c.Forbidden {
			notes = append(notes, "restricted")
		}
		if c.Battle != "" {
			notes = append(notes, c.Battle)
		}
		line := fmt.Sprintf("%s %-9s (%d,%d)", marker, c.ID, c.X, c.Y)
		if len(notes) > 0 {
			line += " [" + strings.Join(notes, ", ") + "]"
		}
		o.printf("%s\n", line)
	}
}

func (o *Output) printMove(m MoveResult) {
	if m.Battle != nil {
		o.printf("A %s blocks the way to %s!\n", m.Battle.Opponent.Username, m.Cell.ID)
		o.printBattleState(*m.Battle)
		return
	}
	o.printf("Moved to %s (%d,%d)\n", m.Cell.ID, m.Position.X, m.Position.Y)
}

func (o *Output) printBattleStatus(b BattleStatus) {
	if !b.Active || b.State == nil {
		o.printf("No battle in progress\n")
		return
	}
	o.printBattleState(*b.State)
}

func (o *Output) printBattleState(s BattleState) {
	o.printf("Turn %d vs %s\n", s.Turn, s.Opponent.Username)
	o.printf("  You:      %3d%%\n", s.PlayerHealthPct)
	o.printf("  Opponent: %3d%%\n", s.OpponentHealthPct)
}

func (o *Output) printBattleTurn(t BattleTurn) {
	if t.Message != "" {
		o.printf("%s\n", t.Message)
	}
	o.printBattleState(t.State)
	if t.Position != nil {
		o.printf("You advance to (%d,%d)\n", t.Position.X, t.Position.Y)
	}
}

func (o *Output) printFriends(f FriendList) {
	for _, friend := range f.Friends {
		o.printf("  - %s\n", friend.Username)
	}
}
