package index

import (
	"fmt"

	"github.com/Zuo-Peng/titansave/internal/savefile"
)

// LoadParsedSave rebuilds the parsed view of an indexed save. It returns
// nil, nil when the key is unknown.
func (d *DB) LoadParsedSave(saveKey string) (*savefile.ParsedSave, error) {
	row, err := d.GetSaveByKey(saveKey)
	if err != nil {
		return nil, fmt.Errorf("get save: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	progress, err := d.GetProgress(saveKey)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	save := &savefile.ParsedSave{
		Path:          row.FilePath,
		Checksum:      row.Checksum,
		Valid:         row.Valid,
		TimePlayedRaw: row.TimePlayedRaw,
		Deaths:        row.Deaths,
		KillsDeclared: row.KillsDeclared,
	}
	if row.HasKills {
		save.BossesSlain = []string{}
	}
	if row.HasKeys {
		save.KeysUnlocked = []string{}
	}
	for _, p := range progress {
		switch p.Kind {
		case KindBoss:
			save.BossesSlain = append(save.BossesSlain, p.Ident)
		case KindKey:
			save.KeysUnlocked = append(save.KeysUnlocked, p.Ident)
		}
	}
	return save, nil
}
