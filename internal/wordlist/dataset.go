// Package wordlist provides themed word lists for random puzzles.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/multierr"
)

// ErrUnknownTheme is returned when a theme is not in the dataset.
var ErrUnknownTheme = errors.New("unknown theme")

// predefinedThemes contains the built-in word lists.
var predefinedThemes = map[string][]string{
	"animals": {
		"ALLIGATOR", "BADGER", "BEAVER", "BISON", "CAMEL", "CHEETAH", "COYOTE",
		"DOLPHIN", "DONKEY", "ELEPHANT", "FALCON", "FERRET", "GAZELLE", "GIRAFFE",
		"GORILLA", "HAMSTER", "HEDGEHOG", "IGUANA", "JAGUAR", "KANGAROO", "KOALA",
		"LEOPARD", "LOBSTER", "MEERKAT", "MONKEY", "OCTOPUS", "OSTRICH", "OTTER",
		"PANTHER", "PENGUIN", "RABBIT", "RACCOON", "SQUIRREL", "TIGER", "TORTOISE",
		"TURTLE", "WALRUS", "WEASEL", "WOMBAT", "ZEBRA",
	},
	"fruits": {
		"APPLE", "APRICOT", "AVOCADO", "BANANA", "BLUEBERRY", "CHERRY", "COCONUT",
		"CRANBERRY", "DATE", "FIG", "GRAPE", "GUAVA", "KIWI", "LEMON", "LIME",
		"LYCHEE", "MANGO", "MELON", "NECTARINE", "ORANGE", "PAPAYA", "PEACH",
		"PEAR", "PERSIMMON", "PINEAPPLE", "PLUM", "QUINCE", "RASPBERRY",
		"STRAWBERRY", "TANGERINE",
	},
	"space": {
		"ASTEROID", "AURORA", "COMET", "CONSTELLATION", "COSMOS", "ECLIPSE",
		"GALAXY", "GRAVITY", "JUPITER", "MARS", "MERCURY", "METEOR", "MOON",
		"NEBULA", "NEPTUNE", "ORBIT", "PLANET", "PULSAR", "QUASAR", "ROCKET",
		"SATELLITE", "SATURN", "SOLSTICE", "TELESCOPE", "URANUS", "VENUS",
	},
	"programming": {
		"ALGORITHM", "ARRAY", "BINARY", "BOOLEAN", "BUFFER", "CHANNEL", "COMPILER",
		"DEBUGGER", "FUNCTION", "GOROUTINE", "INTERFACE", "ITERATOR", "KERNEL",
		"LAMBDA", "MODULE", "MUTEX", "POINTER", "PROTOCOL", "QUEUE", "RECURSION",
		"RUNTIME", "SCHEDULER", "SLICE", "STRUCT", "SYNTAX", "THREAD", "VARIABLE",
	},
	"fish": {
		"オニカマス", "ホウボウ", "マツカサウオ", "ハリセンボン", "カワハギ", "フグ",
		"タツノオトシゴ", "オコゼ", "アンコウ", "ウツボ", "ハモ", "カサゴ", "メバル",
		"アイナメ", "カレイ", "ヒラメ", "タイ", "スズキ", "アジ", "サバ",
	},
}

// Dataset manages themed word lists. It is safe for concurrent use.
type Dataset struct {
	mu     sync.RWMutex
	themes map[string][]string
	rng    *rand.Rand
}

// NewDataset creates a dataset holding the built-in themes.
func NewDataset(rng *rand.Rand) *Dataset {
	themes := make(map[string][]string, len(predefinedThemes))
	for name, words := range predefinedThemes {
		themes[name] = append([]string(nil), words...)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Dataset{themes: themes, rng: rng}
}

// Themes returns the theme names in alphabetical order.
func (d *Dataset) Themes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.themeNames()
}

func (d *Dataset) themeNames() []string {
	names := make([]string, 0, len(d.themes))
	for name := range d.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Words returns every word of a theme.
func (d *Dataset) Words(theme string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.words(theme)
}

func (d *Dataset) words(theme string) ([]string, error) {
	words, ok := d.themes[strings.ToLower(theme)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTheme, theme)
	}
	return append([]string(nil), words...), nil
}

// all returns every Latin word across themes, sorted so sampling is
// deterministic for a seeded source.
func (d *Dataset) all() []string {
	var out []string
	for _, name := range d.themeNames() {
		if name == "fish" {
			continue
		}
		out = append(out, d.themes[name]...)
	}
	return out
}

// Random returns n distinct random words whose lengths fall within
// minLen..maxLen. An empty theme samples every Latin theme. Zero or negative
// bounds are ignored. Fewer than n words are returned when not enough match.
func (d *Dataset) Random(theme string, n, minLen, maxLen int) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pool := d.all()
	if theme != "" {
		var err error
		if pool, err = d.words(theme); err != nil {
			return nil, err
		}
	}
	if minLen < 1 {
		minLen = 1
	}
	if maxLen < 1 {
		maxLen = 999
	}

	matching := make([]string, 0, len(pool))
	for _, w := range pool {
		if l := len([]rune(w)); l >= minLen && l <= maxLen {
			matching = append(matching, w)
		}
	}
	if n >= len(matching) {
		return matching, nil
	}
	d.rng.Shuffle(len(matching), func(i, j int) {
		matching[i], matching[j] = matching[j], matching[i]
	})
	return matching[:n], nil
}

// Load reads a custom theme with one word per line. Blank lines are skipped
// and entries that are not purely letters are dropped. The number of dropped
// entries is returned.
func (d *Dataset) Load(theme string, r io.Reader) (int, error) {
	var words []string
	dropped := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !isWord(line) {
			dropped++
			continue
		}
		words = append(words, strings.ToUpper(line))
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read word list %s: %w", theme, err)
	}
	if len(words) == 0 {
		return dropped, fmt.Errorf("no valid words found in word list %s", theme)
	}
	d.mu.Lock()
	d.themes[strings.ToLower(theme)] = words
	d.mu.Unlock()
	return dropped, nil
}

// LoadDir loads every *.txt file in dir as a theme named after the file.
// Files that fail to load are skipped and their errors combined; the
// themes that did load are returned.
func (d *Dataset) LoadDir(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list word lists in %s: %w", dir, err)
	}
	sort.Strings(paths)

	var loaded []string
	var errs error
	for _, path := range paths {
		theme := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if err := d.loadFile(theme, path); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		loaded = append(loaded, theme)
	}
	return loaded, errs
}

func (d *Dataset) loadFile(theme, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer f.Close()
	_, err = d.Load(theme, f)
	return err
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
