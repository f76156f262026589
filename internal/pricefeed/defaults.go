package pricefeed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mtlprog/zakat/internal/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultsFile struct {
	Currencies []domain.CurrencyInfo `yaml:"currencies"`
}

// DefaultCurrencies returns the built-in currency list.
func DefaultCurrencies() ([]domain.CurrencyInfo, error) {
	var f defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &f); err != nil {
		return nil, fmt.Errorf("parsing default currencies: %w", err)
	}
	return f.Currencies, nil
}
