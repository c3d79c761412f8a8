package savefile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxKillsHint bounds the capacity pre-allocated from Kills@count.
const maxKillsHint = 1024

var errNegativeCount = errors.New("negative count")

type options struct {
	strictOrder bool
}

type Option func(*options)

// WithStrictOrder makes a Titan element that precedes every Kills element
// fail with a *SequenceError instead of starting an empty bosses list.
func WithStrictOrder() Option {
	return func(o *options) { o.strictOrder = true }
}

// Load reads the save at path and parses it.
func Load(path string, opts ...Option) (*ParsedSave, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}

	save, err := Parse(string(raw), opts...)
	if err != nil {
		return nil, err
	}
	save.Path = path
	return save, nil
}

// Parse splits content and parses the payload when the split is valid. An
// invalid split is not an error: the result has Valid == false and every
// other field at its default.
func Parse(content string, opts ...Option) (*ParsedSave, error) {
	split := Split(content)
	if !split.Valid {
		return newParsedSave(), nil
	}

	save, err := ParsePayload(split.Payload, opts...)
	if err != nil {
		return nil, err
	}
	save.Checksum = split.Checksum
	save.Payload = split.Payload
	save.Valid = true
	return save, nil
}

// ParsePayload walks the element-start events of payload in document order.
// Unknown elements and attributes are ignored. Valid is left false; Parse
// sets it from the split.
func ParsePayload(payload string, opts ...Option) (*ParsedSave, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	save := newParsedSave()
	decoder := xml.NewDecoder(strings.NewReader(payload))

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MarkupError{Offset: decoder.InputOffset(), Err: err}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "Kills":
			n, err := intAttr(start, "count")
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, &FormatError{Element: "Kills", Attr: "count", Value: strconv.Itoa(n), Err: errNegativeCount}
			}
			save.KillsDeclared = n
			save.BossesSlain = make([]string, 0, min(n, maxKillsHint))

		case "Key":
			if save.KeysUnlocked == nil {
				save.KeysUnlocked = []string{}
			}
			save.KeysUnlocked = append(save.KeysUnlocked, attr(start, "id"))

		case "Titan":
			if save.BossesSlain == nil {
				if o.strictOrder {
					return nil, &SequenceError{Element: "Titan", Needs: "Kills"}
				}
				save.BossesSlain = []string{}
			}
			save.BossesSlain = append(save.BossesSlain, attr(start, "id"))

		case "time":
			n, err := intAttr(start, "val")
			if err != nil {
				return nil, err
			}
			save.TimePlayedRaw = n

		case "Deaths":
			n, err := intAttr(start, "count")
			if err != nil {
				return nil, err
			}
			save.Deaths = n
		}
	}

	return save, nil
}

// attr returns the value of the named attribute, or "" if it is absent.
func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func intAttr(el xml.StartElement, name string) (int, error) {
	v := attr(el, name)
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return 0, &FormatError{Element: el.Name.Local, Attr: name, Value: v, Err: err}
	}
	return int(n), nil
}
