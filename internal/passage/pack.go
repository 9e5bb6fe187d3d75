// Package passage supplies the target texts for typing sessions.
package passage

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Tier length bounds, in characters.
const (
	EasyMaxLen   = 80
	MediumMaxLen = 120
)

//go:embed passages.yaml
var defaultPackYAML []byte

// Source supplies a passage for a difficulty tier.
type Source interface {
	Next(d model.Difficulty) (string, error)
}

// Entry is one passage as stored in a pack file.
type Entry struct {
	Text string `yaml:"text"`
	Tier string `yaml:"tier,omitempty"`
}

type packFile struct {
	Passages []Entry `yaml:"passages"`
}

// Pack holds passages grouped by tier.
type Pack struct {
	all    []string
	byTier map[model.Difficulty][]string
}

// TierFor derives the tier of a passage from its length.
func TierFor(text string) model.Difficulty {
	n := len([]rune(text))
	switch {
	case n <= EasyMaxLen:
		return model.Easy
	case n <= MediumMaxLen:
		return model.Medium
	default:
		return model.Hard
	}
}

// Normalize trims a passage and collapses runs of whitespace into single
// spaces, so every space in the target is a plain ' '.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NewPack builds a pack from entries. Entries with an empty text or an
// unknown tier are rejected.
func NewPack(entries []Entry) (*Pack, error) {
	p := &Pack{byTier: map[model.Difficulty][]string{}}
	for i, e := range entries {
		text := Normalize(e.Text)
		if text == "" {
			return nil, fmt.Errorf("passage %d is empty", i+1)
		}
		tier := TierFor(text)
		if e.Tier != "" {
			parsed, err := model.ParseDifficulty(e.Tier)
			if err != nil {
				return nil, fmt.Errorf("passage %d: %w", i+1, err)
			}
			tier = parsed
		}
		p.all = append(p.all, text)
		p.byTier[tier] = append(p.byTier[tier], text)
	}
	if len(p.all) == 0 {
		return nil, fmt.Errorf("passage pack is empty")
	}
	return p, nil
}

// ParsePack decodes a YAML pack.
func ParsePack(data []byte) (*Pack, error) {
	var f packFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode passage pack: %w", err)
	}
	return NewPack(f.Passages)
}

// Default returns the built-in pack.
func Default() *Pack {
	p, err := ParsePack(defaultPackYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in passage pack: %v", err))
	}
	return p
}

// LoadFile reads a pack from path. Files ending in .yaml or .yml are parsed
// as packs; anything else is read as plain text, one passage per line.
func LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParsePack(data)
	default:
		return parseLines(data)
	}
}

func parseLines(data []byte) (*Pack, error) {
	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, Entry{Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewPack(entries)
}

// Len returns the number of passages in the pack.
func (p *Pack) Len() int {
	return len(p.all)
}

// Tier returns the passages of a tier.
func (p *Pack) Tier(d model.Difficulty) []string {
	return append([]string(nil), p.byTier[d]...)
}

// All returns every passage in load order.
func (p *Pack) All() []string {
	return append([]string(nil), p.all...)
}
