package config

type GitConfig struct {
	Enabled bool
	Order   int

	Uri            string
	KnownHostsFile string `json:"knownHostsFile"`
	PrivateKey     string `json:"privateKey"`

	Basedir                string `json:"basedir"`
	DisableBaseDirCleaning bool   `json:"disableBaseDirCleaning"`
	DefaultBranchName      string `json:"defaultBranchName"`

	ForcePull    bool `json:"force-pull"`
	ShowProgress bool `json:"showProgress"`

	// Files are repository-relative paths of secret files to read
	Files []string
}
