package git

import (
	"sync"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/filetypes"
	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

const SourceName = "git"

type Source struct {
	Config      config.GitConfig
	Repo        *goGit.Repository
	PublicKeys  *ssh.PublicKeys
	Decrypter   filetypes.Decrypter
	EnableTrace bool

	// Prevent `concurrent map writes` in go-git's packfile index when loads overlap
	lock sync.Mutex
}
