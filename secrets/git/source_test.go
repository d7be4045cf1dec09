package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/secrets"
	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthrough struct{}

func (passthrough) Decrypt(data []byte, _ string) ([]byte, error) {
	return data, nil
}

func commitFile(t *testing.T, repo *goGit.Repository, dir, name, content string) string {
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit("update "+name, &goGit.CommitOptions{
		Author: &object.Signature{Name: "ci", Email: "ci@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestLoadFromLocalRepo(t *testing.T) {
	dir := t.TempDir()
	repo, err := goGit.PlainInit(dir, false)
	require.NoError(t, err)

	commitFile(t, repo, dir, "production.env", "ANTHROPIC_API_KEY=sk-one\n")
	version := commitFile(t, repo, dir, "deploy.yml", "portainer:\n  stack_id: 9\n")

	s := &Source{
		Config:    config.GitConfig{Files: []string{"production.env", "deploy.yml"}},
		Repo:      repo,
		Decrypter: passthrough{},
	}

	snap, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, version, snap.Version)
	assert.Equal(t, secrets.Values{
		"ANTHROPIC_API_KEY":  "sk-one",
		"PORTAINER_STACK_ID": "9",
	}, snap.Values)

	// a later commit is picked up on the next load
	version = commitFile(t, repo, dir, "production.env", "ANTHROPIC_API_KEY=sk-two\n")
	snap, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, version, snap.Version)
	assert.Equal(t, "sk-two", snap.Values["ANTHROPIC_API_KEY"])
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := goGit.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "other.env", "A=1\n")

	s := &Source{Config: config.GitConfig{Files: []string{"production.env"}}, Repo: repo}
	_, err = s.Load(context.Background())
	assert.Error(t, err)
}

func TestLoadUninitialised(t *testing.T) {
	s := &Source{}
	_, err := s.Load(context.Background())
	assert.EqualError(t, err, "git secret source is not initialised")
}
