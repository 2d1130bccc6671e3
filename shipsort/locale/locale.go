// Package locale translates message keys into the text shown to players.
package locale

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sandertv/gophertunnel/minecraft/text"
	"golang.org/x/text/language"
)

//go:embed en.lang
var english []byte

// localeData represents a mapping of translation keys to their respective values for a specific language.
type localeData map[string]string

var (
	localesMu sync.RWMutex
	// locales holds the registered locale data keyed by language tag. English is always present.
	locales = map[language.Tag]localeData{language.English: mustParse(english)}
)

// Register registers a new locale from the specified language file path.
// The language file is named after the tag, such as "en.lang", and holds "key=value" lines.
// Keys missing from an English file keep their built-in translation, and a missing English
// file is not an error.
func Register(lang language.Tag, filePath string) error {
	file, err := os.Open(fmt.Sprintf("%s/%s.lang", filePath, lang.String()))
	if errors.Is(err, os.ErrNotExist) && lang == language.English {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not open lang file: %w", err)
	}
	defer file.Close()

	data, err := parse(file)
	if err != nil {
		return err
	}

	localesMu.Lock()
	defer localesMu.Unlock()
	if base, ok := locales[lang]; ok {
		for k, v := range base {
			if _, ok := data[k]; !ok {
				data[k] = v
			}
		}
	}
	locales[lang] = data
	return nil
}

// parse reads "key=value" lines, skipping blank lines and comments.
func parse(r io.Reader) (localeData, error) {
	data := make(localeData)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading lang file: %w", err)
	}
	return data, nil
}

// mustParse ...
func mustParse(b []byte) localeData {
	data, err := parse(bytes.NewReader(b))
	if err != nil {
		panic(err)
	}
	return data
}

// Translate translates a key to the default language (English) and formats it with the provided arguments.
func Translate(key string, args ...any) string {
	return text.Colourf(TranslateL(language.English, key, args...))
}

// TranslateL translates a key to a specified language and formats it with the provided arguments.
// If the language data is unavailable, it falls back to the English translation.
// Placeholders %1, %2, ... in the translation are replaced by the arguments.
func TranslateL(lang language.Tag, key string, args ...any) string {
	localesMu.RLock()
	locale, ok := locales[lang]
	if !ok {
		locale = locales[language.English]
	}
	translation, ok := locale[key]
	localesMu.RUnlock()
	if !ok {
		return fmt.Sprintf("missing translation for '%s'", key)
	}

	// Replace from the highest index down so %1 never clobbers the prefix of %10.
	for i := len(args) - 1; i >= 0; i-- {
		placeholder := fmt.Sprintf("%%%d", i+1)
		translation = strings.ReplaceAll(translation, placeholder, fmt.Sprintf("%v", args[i]))
	}
	return translation
}
