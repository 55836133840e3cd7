package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Virtual-key codes for keys that have no printable name. These follow the
// Windows VK_* table, which is what the global hook reports as raw codes on
// the platform the tool targets.
const (
	vkLShift   = 0xA0
	vkRShift   = 0xA1
	vkLControl = 0xA2
	vkRControl = 0xA3
	vkLMenu    = 0xA4
	vkRMenu    = 0xA5
	vkLWin     = 0x5B
	vkRWin     = 0x5C
	vkEscape   = 0x1B
	vkSpace    = 0x20
	vkReturn   = 0x0D
	vkTab      = 0x09
	vkF1       = 0x70
)

// Combo is a parsed hotkey combination. Each element is a set of raw key
// codes any one of which satisfies that slot — "ctrl" matches either the
// left or the right control key.
type Combo struct {
	spec string
	keys [][]uint16
}

// namedKeys maps combo tokens to their acceptable raw codes.
var namedKeys = map[string][]uint16{
	"ctrl":    {vkLControl, vkRControl},
	"control": {vkLControl, vkRControl},
	"shift":   {vkLShift, vkRShift},
	"alt":     {vkLMenu, vkRMenu},
	"menu":    {vkLMenu, vkRMenu},
	"win":     {vkLWin, vkRWin},
	"meta":    {vkLWin, vkRWin},
	"super":   {vkLWin, vkRWin},
	"esc":     {vkEscape},
	"escape":  {vkEscape},
	"space":   {vkSpace},
	"enter":   {vkReturn},
	"return":  {vkReturn},
	"tab":     {vkTab},
}

// ParseCombo parses a hotkey specification like "ctrl+win", "alt+q" or "f6".
// Tokens are case-insensitive and separated by '+'. Every token must resolve
// to at least one key code.
func ParseCombo(spec string) (Combo, error) {
	if strings.TrimSpace(spec) == "" {
		return Combo{}, fmt.Errorf("hotkey: empty combo spec")
	}

	parts := strings.Split(spec, "+")
	keys := make([][]uint16, 0, len(parts))
	for _, p := range parts {
		token := strings.ToLower(strings.TrimSpace(p))
		codes, err := parseToken(token)
		if err != nil {
			return Combo{}, fmt.Errorf("hotkey: combo %q: %w", spec, err)
		}
		keys = append(keys, codes)
	}
	return Combo{spec: spec, keys: keys}, nil
}

func parseToken(token string) ([]uint16, error) {
	if token == "" {
		return nil, fmt.Errorf("empty key token")
	}
	if codes, ok := namedKeys[token]; ok {
		return codes, nil
	}
	if len(token) == 1 {
		ch := token[0]
		if ch >= 'a' && ch <= 'z' {
			return []uint16{uint16(ch - 'a' + 'A')}, nil
		}
		if ch >= '0' && ch <= '9' {
			return []uint16{uint16(ch)}, nil
		}
	}
	if rest, ok := strings.CutPrefix(token, "f"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 24 {
			return []uint16{uint16(vkF1 + n - 1)}, nil
		}
	}
	return nil, fmt.Errorf("unknown key %q", token)
}

// String returns the original spec.
func (c Combo) String() string { return c.spec }

// Keys returns the parsed key sets. The slice must not be mutated.
func (c Combo) Keys() [][]uint16 { return c.keys }
