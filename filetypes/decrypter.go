package filetypes

import "github.com/GlintPay/grip/sops"

type Decrypter interface {
	Decrypt(data []byte, format string) ([]byte, error)
}

type SopsDecrypter struct{}

func (SopsDecrypter) Decrypt(data []byte, format string) ([]byte, error) {
	return sops.Decrypt(data, format)
}
