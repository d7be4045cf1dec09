package file

import (
	"context"
	"os"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/filetypes"
	"github.com/GlintPay/grip/secrets"
	"github.com/GlintPay/grip/utils"
	"github.com/rs/zerolog/log"
)

const SourceName = "file"

type Source struct {
	Config    config.FileSourceConfig
	Decrypter filetypes.Decrypter
}

func (s *Source) Order() int {
	return s.Config.Order
}

func (s *Source) Name() string {
	return SourceName
}

// Load reads the configured files in order; a later file overrides an earlier one
func (s *Source) Load(_ context.Context) (*secrets.Snapshot, error) {
	values := make(secrets.Values)

	for _, path := range s.Config.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		log.Debug().Msgf("Reading secrets from %s", utils.FriendlyFileName(path))

		decoded, err := filetypes.Decode(path, data, s.decrypter())
		if err != nil {
			return nil, err
		}
		for k, v := range decoded {
			values[k] = v
		}
	}

	return &secrets.Snapshot{Values: values}, nil
}

func (s *Source) decrypter() filetypes.Decrypter {
	if s.Decrypter == nil {
		return filetypes.SopsDecrypter{}
	}
	return s.Decrypter
}

func (s *Source) Close() {
	// NOOP
}
