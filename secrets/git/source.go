package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/GlintPay/grip/filetypes"
	gotel "github.com/GlintPay/grip/otel"
	"github.com/GlintPay/grip/secrets"
	goGit "github.com/go-git/go-git/v5"
	goGitConfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/rs/zerolog/log"
)

func (s *Source) Order() int {
	return s.Config.Order
}

func (s *Source) Name() string {
	return SourceName
}

func (s *Source) Init(ctx context.Context) error {
	if s.Decrypter == nil {
		s.Decrypter = filetypes.SopsDecrypter{}
	}

	if s.Config.PrivateKey != "" {
		hostKeyCallback, err := ssh.NewKnownHostsCallback(s.Config.KnownHostsFile)
		if err != nil {
			return err
		}

		s.PublicKeys, err = ssh.NewPublicKeys("git", []byte(strings.TrimSpace(s.Config.PrivateKey)), "")
		if err != nil {
			return err
		}

		s.PublicKeys.HostKeyCallback = hostKeyCallback
	}

	if s.Repo != nil {
		return nil
	}

	log.Debug().Msg("Clone on startup...")
	return s.connect(ctx, !s.Config.DisableBaseDirCleaning)
}

// Load pulls the latest commit and decodes the configured files from it. The version is the commit hash.
func (s *Source) Load(ctx context.Context) (*secrets.Snapshot, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.Config.Uri != "" {
		if e := s.connect(ctx, false); e != nil {
			return nil, e
		}
	}
	if s.Repo == nil {
		return nil, errors.New("git secret source is not initialised")
	}

	ref, err := s.Repo.Head()
	if err != nil {
		return nil, err
	}

	commit, err := s.Repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, err
	}

	values := make(secrets.Values)
	for _, path := range s.Config.Files {
		f, err := commit.File(path)
		if err != nil {
			return nil, fmt.Errorf("%s at %s: %w", path, commit.Hash.String()[:8], err)
		}

		contents, err := f.Contents()
		if err != nil {
			return nil, err
		}

		decoded, err := filetypes.Decode(path, []byte(contents), s.decrypter())
		if err != nil {
			return nil, err
		}
		for k, v := range decoded {
			values[k] = v
		}
	}

	return &secrets.Snapshot{
		Version: commit.Hash.String(),
		Values:  values,
	}, nil
}

func (s *Source) decrypter() filetypes.Decrypter {
	if s.Decrypter == nil {
		return filetypes.SopsDecrypter{}
	}
	return s.Decrypter
}

func (s *Source) connect(ctx context.Context, cleanExisting bool) error {
	if cleanExisting {
		if e := s.cleanRepo(); e != nil {
			return e
		}
	}

	branch := s.Config.DefaultBranchName
	if branch == "" {
		branch = "main"
	}
	ref := plumbing.ReferenceName("refs/heads/" + branch)

	repo, err := goGit.PlainOpen(s.Config.Basedir)

	if errors.Is(err, goGit.ErrRepositoryNotExists) {
		ctx, end := gotel.StartSpan(ctx, s.EnableTrace, "git-clone", gotel.ClientOptions)
		defer end()

		repo, err = goGit.PlainCloneContext(ctx, s.Config.Basedir, false, s.getCloneOptions(ref))
		if err != nil {
			return err
		}

		log.Debug().Msgf("Cloned [%s] OK", branch)
	} else if err != nil {
		return err
	} else {
		w, err := repo.Worktree()
		if err != nil {
			return err
		}

		head, err := repo.Head()
		if err == nil && head.Name() != ref {
			if err = s.checkout(repo, w, branch, ref); err != nil {
				return err
			}
		}

		ctx, end := gotel.StartSpan(ctx, s.EnableTrace, "git-pull", gotel.ClientOptions)
		defer end()

		err = w.PullContext(ctx, s.getPullOptions(ref))
		if err != nil && !errors.Is(err, goGit.NoErrAlreadyUpToDate) {
			return err
		}

		if s.Config.ForcePull {
			log.Debug().Msgf("Pulled OK (with force)")
		} else {
			log.Debug().Msgf("Pulled OK")
		}
	}

	s.Repo = repo
	return nil
}

func (s *Source) getCloneOptions(ref plumbing.ReferenceName) *goGit.CloneOptions {
	cloneOpts := &goGit.CloneOptions{
		URL:           s.Config.Uri,
		ReferenceName: ref,
		SingleBranch:  true,
		Depth:         1, // only the tip is ever read
	}

	if s.PublicKeys != nil {
		cloneOpts.Auth = s.PublicKeys
	}
	if s.Config.ShowProgress {
		cloneOpts.Progress = os.Stdout
	}

	return cloneOpts
}

func (s *Source) getPullOptions(ref plumbing.ReferenceName) *goGit.PullOptions {
	po := &goGit.PullOptions{
		ReferenceName: ref,
		SingleBranch:  true,
	}

	if s.PublicKeys != nil {
		po.Auth = s.PublicKeys
	}
	if s.Config.ShowProgress {
		po.Progress = os.Stdout
	}
	if s.Config.ForcePull {
		po.Force = true
	}

	return po
}

func (s *Source) checkout(repo *goGit.Repository, w *goGit.Worktree, branch string, ref plumbing.ReferenceName) error {
	coOpts := &goGit.CheckoutOptions{Branch: ref}

	err := w.Checkout(coOpts)
	if err == nil {
		log.Debug().Msgf("Checked out local [%s] OK", branch)
		return nil
	}

	mirrorRemoteBranchRefSpec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)
	if err = s.fetchOrigin(repo, mirrorRemoteBranchRefSpec); err != nil {
		return err
	}

	if err = w.Checkout(coOpts); err != nil {
		return err
	}

	log.Debug().Msgf("Checked out remote [%s] OK", branch)
	return nil
}

func (s *Source) fetchOrigin(repo *goGit.Repository, refSpecStr string) error {
	remote, err := repo.Remote("origin")
	if err != nil {
		return err
	}

	fo := &goGit.FetchOptions{
		RefSpecs: []goGitConfig.RefSpec{goGitConfig.RefSpec(refSpecStr)},
	}
	if s.Config.ShowProgress {
		fo.Progress = os.Stdout
	}
	if s.PublicKeys != nil {
		fo.Auth = s.PublicKeys
	}

	if err = remote.Fetch(fo); err != nil {
		if errors.Is(err, goGit.NoErrAlreadyUpToDate) {
			log.Debug().Msgf("refs already up to date")
		} else {
			return fmt.Errorf("fetch origin failed: %w", err)
		}
	}

	return nil
}

func (s *Source) cleanRepo() error {
	if s.Config.Basedir == "" {
		return nil
	}
	log.Debug().Msg("Cleaning existing...")
	return os.RemoveAll(s.Config.Basedir)
}

func (s *Source) Close() {
	// NOOP
}
