package domain

type CommandConfig struct {
	LogLevel       string
	Port           int
	TLS            bool
	TLSCert        string
	TLSKey         string
	DNSName        string
	JujuAddrs      string
	JujuCert       string
	AllowedUsers   string
	SessionTimeout int
	WelcomeMessage string
	PrevPort       int
}

type CommandSetup struct {
	QuotaCPUCores     int
	QuotaCPUAllowance string
	QuotaRAM          string
	QuotaProcesses    int
}

type CommandImportImage struct {
	Alias string
	Path  string
}

type CommandExterminate struct {
	Name        string
	OnlyStopped bool
	DryRun      bool
}
