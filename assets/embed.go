// assets/embed.go
//
// Files compiled into the binary.
//   - dictionary.txt: default word list used when DICTIONARY_FILE is unset.
//   - migrations/*.sql: schema for the SQLite round archive.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed dictionary.txt migrations/*.sql
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// DictionaryList returns the embedded default word list.
func DictionaryList() ([]string, error) {
	return readLines("dictionary.txt")
}

// Migrations returns the embedded migration scripts rooted at migrations/.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "migrations")
	if err != nil {
		// The pattern above guarantees the directory exists.
		panic(err)
	}
	return sub
}
