// internal/words/words.go
//
// Dictionary management for the session engine.
//
// Responsibilities:
//   - Load the word list from a file named by configuration, or fall back to the
//     embedded default list in assets.
//   - Normalize entries (trim, uppercase) and keep only A–Z words of length ≥ 3.
//   - Expose an immutable set with Contains and Len.
//
// Word list format:
//   - One word per line; blank lines and lines starting with '#' are skipped.
//
// Constraints:
//   • The dictionary is read-only once loaded and safe for concurrent reads.
//   • An empty result is an error: no round can be scored without words.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kagithamanoj/boggle/assets"
)

// MinLength is the shortest word kept in a dictionary.
const MinLength = 3

// ErrEmpty is returned when a word list yields no usable words.
var ErrEmpty = errors.New("words: dictionary is empty")

// Dictionary is an immutable set of uppercase words.
type Dictionary struct {
	set map[string]struct{}
}

// Load reads the dictionary at path, or the embedded default when path is "".
func Load(path string) (*Dictionary, error) {
	if path == "" {
		list, err := assets.DictionaryList()
		if err != nil {
			return nil, fmt.Errorf("words: embedded dictionary: %w", err)
		}
		return fromList(list)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return d, nil
}

// Read builds a dictionary from one word per line.
func Read(r io.Reader) (*Dictionary, error) {
	var list []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		list = append(list, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return fromList(list)
}

// New builds a dictionary from a list of words, normalizing each entry.
// Unlike Load and Read, an empty result is allowed.
func New(list ...string) *Dictionary {
	d := &Dictionary{set: make(map[string]struct{}, len(list))}
	for _, w := range list {
		if w, ok := normalize(w); ok {
			d.set[w] = struct{}{}
		}
	}
	return d
}

func fromList(list []string) (*Dictionary, error) {
	d := New(list...)
	if d.Len() == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// normalize trims and uppercases a line, rejecting comments, short words,
// and anything outside A–Z.
func normalize(line string) (string, bool) {
	w := strings.ToUpper(strings.TrimSpace(line))
	if len(w) < MinLength || strings.HasPrefix(w, "#") || !isAlpha(w) {
		return "", false
	}
	return w, true
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Contains reports whether the uppercase word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	if d == nil {
		return false
	}
	_, ok := d.set[word]
	return ok
}

// Len returns the number of words loaded.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.set)
}
