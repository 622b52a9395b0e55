// Package chartfile reads chart of accounts definitions from TOML files.
package chartfile

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
)

type chartFile struct {
	Accounts []domain.ChartAccount `toml:"accounts"`
}

// Load decodes the [[accounts]] tables of the file at path.
// Unknown keys are rejected so a misspelt field does not silently seed a wrong chart.
func Load(path string) ([]domain.ChartAccount, error) {
	var f chartFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode chart file %s: %w", apperrors.ErrValidation, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: chart file %s has unknown keys: %s", apperrors.ErrValidation, path, strings.Join(keys, ", "))
	}
	if len(f.Accounts) == 0 {
		return nil, fmt.Errorf("%w: chart file %s defines no accounts", apperrors.ErrValidation, path)
	}
	for i, a := range f.Accounts {
		if strings.TrimSpace(a.Number) == "" {
			return nil, fmt.Errorf("%w: chart file %s: account %d has no number", apperrors.ErrValidation, path, i+1)
		}
	}
	return f.Accounts, nil
}
