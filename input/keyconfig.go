package input

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	toml "github.com/pelletier/go-toml/v2"
)

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// keysByName resolves lower-cased tcell key names ("up", "esc", "ctrl-c")
var keysByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

const (
	sectionKeys  = "keys"
	sectionRunes = "runes"
)

// LoadKeyConfig parses TOML keymap data into a sparse override KeyTable
// Only keys present in the TOML are populated
// Returns error on unknown sections, action names or key names, or on parse failure
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	var raw map[string]map[string]string
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}

	kt := &KeyTable{}
	for section, bindings := range raw {
		switch section {
		case sectionKeys:
			keyMap, err := parseSpecialKeySection(section, bindings)
			if err != nil {
				return nil, err
			}
			kt.SpecialKeys = keyMap
		case sectionRunes:
			runeMap, err := parseRuneSection(section, bindings)
			if err != nil {
				return nil, err
			}
			kt.Runes = runeMap
		default:
			return nil, fmt.Errorf("unknown keymap section: [%s]", section)
		}
	}

	return kt, nil
}

// parseRuneSection parses rune key → action name bindings
func parseRuneSection(section string, data map[string]string) (map[rune]KeyEntry, error) {
	result := make(map[rune]KeyEntry, len(data))

	for keyStr, actionName := range data {
		r, err := resolveRune(keyStr)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		entry, err := resolveAction(actionName)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		result[unicode.ToLower(r)] = entry
	}

	return result, nil
}

// parseSpecialKeySection parses tcell key name → action name bindings
func parseSpecialKeySection(section string, data map[string]string) (map[tcell.Key]KeyEntry, error) {
	result := make(map[tcell.Key]KeyEntry, len(data))

	for keyStr, actionName := range data {
		k, ok := keysByName[strings.ToLower(keyStr)]
		if !ok {
			return nil, fmt.Errorf("[%s] unknown key name: %q", section, keyStr)
		}
		entry, err := resolveAction(actionName)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		result[k] = entry
	}

	return result, nil
}

// resolveRune converts a TOML key string to a rune
// Accepts single characters and named aliases
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}

	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}

	return 0, fmt.Errorf("invalid rune key: %q (expected single character or alias)", s)
}

// resolveAction converts an action name string to a KeyEntry
func resolveAction(name string) (KeyEntry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	entry, ok := ActionEntry(name)
	if !ok {
		return KeyEntry{}, fmt.Errorf("unknown action: %q", name)
	}
	return entry, nil
}

// MergeKeyTable returns a new KeyTable with base values overridden by non-nil override maps
// Override entries with BehaviorNone ("none" action) delete the key from the result
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	result := base.Clone()
	mergeMap(result.SpecialKeys, override.SpecialKeys)
	mergeMap(result.Runes, override.Runes)
	return result
}

func mergeMap[K comparable](base, override map[K]KeyEntry) {
	for k, v := range override {
		if v.Behavior == BehaviorNone {
			delete(base, k)
		} else {
			base[k] = v
		}
	}
}
