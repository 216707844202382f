package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ledgermatch/ledgermatch/internal/model"
	"github.com/ledgermatch/ledgermatch/internal/normalize"
)

// rulesFile is the on-disk shape of rules.json.
type rulesFile struct {
	RulesVersion   int                       `json:"rules_version"`
	Patterns       []model.PatternRule       `json:"patterns"`
	Exact          map[string]model.ExactRule `json:"exact"`
	RawToCanonical map[string]string         `json:"raw_to_canonical,omitempty"`
}

// Paths names the files a store persists to.
type Paths struct {
	Rules      string
	Categories string
	Groups     string
}

// Load builds a store from the persisted files. Missing files are treated as
// empty, never as errors; only a present-but-invalid file fails. A rules
// file whose exact keys collide case-insensitively is rejected outright:
// the store cannot represent it and silently dropping a rule would be worse.
func Load(paths Paths) (*Store, error) {
	s := NewStore()

	if err := loadRulesJSON(s, paths.Rules); err != nil {
		return nil, err
	}
	if err := loadCategories(s, paths.Categories); err != nil {
		return nil, err
	}
	if err := loadGroups(s, paths.Groups); err != nil {
		return nil, err
	}

	s.dirty = false
	return s, nil
}

func loadRulesJSON(s *Store, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read rules file: %w", err)
	}

	var file rulesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if file.RulesVersion > CurrentRulesVersion {
		return fmt.Errorf("%s has rules_version %d, this build understands up to %d",
			path, file.RulesVersion, CurrentRulesVersion)
	}
	if file.RulesVersion > 0 {
		s.rulesVersion = file.RulesVersion
	}

	seen := make(map[string]string, len(file.Exact))
	for merchant, rule := range file.Exact {
		key := normalize.Key(merchant)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s: exact rules %q and %q collide case-insensitively", path, prev, merchant)
		}
		seen[key] = merchant
		s.SetExact(merchant, rule)
	}

	for _, rule := range file.Patterns {
		s.AddPattern(rule)
	}

	for raw, canonical := range file.RawToCanonical {
		s.SetCanonical(raw, canonical)
	}

	return nil
}

func loadCategories(s *Store, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read categories file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.AddCategory(line)
	}
	return nil
}

// loadGroups parses the groups file: lines starting with "*" open a group,
// following lines are its member categories. Members before any header land
// in the Ungrouped bucket.
func loadGroups(s *Store, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read groups file: %w", err)
	}

	current := ""
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "*") {
			current = strings.TrimSpace(strings.TrimLeft(line, "*"))
			s.AddGroup(current)
			continue
		}
		if current == "" {
			current = Ungrouped
			s.AddGroup(current)
		}
		s.AssignGroup(line, current)
	}
	return nil
}

// Save writes the store back to its files. Exact-rule keys and categories
// are written in case-insensitive alphabetical order; pattern order is
// preserved as authored. Each file is written to a temp file and renamed so
// a crash never leaves a half-written rule set.
func Save(s *Store, paths Paths) error {
	if paths.Rules != "" {
		data, err := encodeRulesJSON(s)
		if err != nil {
			return err
		}
		if err := writeAtomic(paths.Rules, data); err != nil {
			return fmt.Errorf("failed to write rules file: %w", err)
		}
	}

	if paths.Categories != "" {
		var b strings.Builder
		for _, c := range s.SortedCategories() {
			b.WriteString(c)
			b.WriteByte('\n')
		}
		if err := writeAtomic(paths.Categories, []byte(b.String())); err != nil {
			return fmt.Errorf("failed to write categories file: %w", err)
		}
	}

	if paths.Groups != "" {
		var b strings.Builder
		for i, g := range s.groups {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("*" + g + "\n")
			for _, c := range s.groupCats[g] {
				b.WriteString(c + "\n")
			}
		}
		if err := writeAtomic(paths.Groups, []byte(b.String())); err != nil {
			return fmt.Errorf("failed to write groups file: %w", err)
		}
	}

	s.dirty = false
	return nil
}

// encodeRulesJSON renders rules.json with deterministic key order. The exact
// object is emitted by hand because encoding/json sorts map keys bytewise,
// which puts "Zara" before "amazon"; the persistence contract is
// case-insensitive alphabetical.
func encodeRulesJSON(s *Store) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	buf.WriteString("  \"exact\": {")
	merchants := s.SortedExactMerchants()
	for i, merchant := range merchants {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n    ")
		key, err := json.Marshal(merchant)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")
		rule, _ := s.Exact(merchant)
		val, err := json.Marshal(rule)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	if len(merchants) > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("},\n")

	buf.WriteString("  \"patterns\": ")
	patterns, err := json.MarshalIndent(s.patterns, "  ", "  ")
	if err != nil {
		return nil, err
	}
	if s.patterns == nil {
		patterns = []byte("[]")
	}
	buf.Write(patterns)
	buf.WriteString(",\n")

	buf.WriteString("  \"raw_to_canonical\": {")
	raws := make([]string, 0, len(s.rawToCanonical))
	for raw := range s.rawToCanonical {
		raws = append(raws, raw)
	}
	sortCaseInsensitive(raws)
	for i, raw := range raws {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n    ")
		key, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")
		val, err := json.Marshal(s.rawToCanonical[raw])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	if len(raws) > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("},\n")

	fmt.Fprintf(&buf, "  \"rules_version\": %d\n", s.rulesVersion)
	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

func sortCaseInsensitive(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && caseInsensitiveLess(ss[j], ss[j-1]); j-- {
			ss[j], ss[j-1] = ss[j-1], ss[j]
		}
	}
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
