package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/samber/lo"
)

//go:embed words/*.txt
var builtin embed.FS

// Dictionary is a merged banned word list and the languages it came from.
type Dictionary struct {
	Words     []string
	Languages []string
}

// DefaultDictionary loads the word lists shipped with the binary.
func DefaultDictionary() (Dictionary, error) {
	return LoadDictionary(builtin, "words")
}

// LoadDictionary reads every {lang}.txt file of dir, one word per line.
func LoadDictionary(fsys fs.FS, dir string) (Dictionary, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return Dictionary{}, err
	}

	var dict Dictionary
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return Dictionary{}, err
		}
		// Scanner copes with \r\n files
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
				dict.Words = append(dict.Words, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return Dictionary{}, err
		}
		dict.Languages = append(dict.Languages, strings.TrimSuffix(entry.Name(), ".txt"))
	}

	dict.Words = lo.Uniq(dict.Words)
	if len(dict.Words) == 0 {
		return Dictionary{}, fmt.Errorf("no banned words under %s", dir)
	}
	sort.Strings(dict.Words)
	return dict, nil
}
