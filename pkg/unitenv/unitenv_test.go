package unitenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shellop/pkg/domain"
)

// fixedEnviron is an Environ with canned values.
type fixedEnviron struct {
	env      map[string]string
	charmDir string
}

func (f fixedEnviron) Getenv(key string) string { return f.env[key] }

func (f fixedEnviron) CharmDir() string { return f.charmDir }

func TestJujuAddresses(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		override  string
		wantAddrs []string
		wantErr   error
	}{{
		name:      "from environment",
		env:       "1.2.3.4:17070 4.3.2.1:17070",
		wantAddrs: []string{"1.2.3.4:17070", "4.3.2.1:17070"},
	}, {
		name:      "override wins",
		env:       "1.2.3.4:17070",
		override:  "1.2.3.4/provided 4.3.2.1/provided",
		wantAddrs: []string{"1.2.3.4/provided", "4.3.2.1/provided"},
	}, {
		name:      "override only",
		override:  "4.3.2.1:17070",
		wantAddrs: []string{"4.3.2.1:17070"},
	}, {
		name:    "nothing available",
		wantErr: ErrNoAddresses,
	}, {
		name:    "blank values",
		env:     "   ",
		wantErr: ErrNoAddresses,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := fixedEnviron{env: map[string]string{
				domain.EnvJujuAddresses: tt.env,
			}}
			addrs, err := JujuAddresses(env, tt.override)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddrs, addrs)
		})
	}
}

func TestJujuCertProvided(t *testing.T) {
	cert := JujuCert(fixedEnviron{charmDir: t.TempDir()}, "provided cert")
	assert.Equal(t, "provided cert", cert)
}

func TestJujuCertFromUnit(t *testing.T) {
	// The agent state file lives one directory above the charm dir.
	dir := t.TempDir()
	charmDir := filepath.Join(dir, "charm")
	require.NoError(t, os.Mkdir(charmDir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "agent.conf"), []byte("cacert: agent cert\n"), 0600))

	env := fixedEnviron{charmDir: charmDir}
	assert.Equal(t, "agent cert", JujuCert(env, "from-unit"))
	assert.Equal(t, "agent cert", JujuCert(env, ""))
}

func TestJujuCertAgentFileMissing(t *testing.T) {
	env := fixedEnviron{charmDir: filepath.Join(t.TempDir(), "charm")}
	assert.Empty(t, JujuCert(env, ""))
	assert.Empty(t, JujuCert(env, "from-unit"))
}

func TestJujuCertAgentFieldMissing(t *testing.T) {
	dir := t.TempDir()
	charmDir := filepath.Join(dir, "charm")
	require.NoError(t, os.Mkdir(charmDir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "agent.conf"), []byte("other: value\n"), 0600))

	assert.Empty(t, JujuCert(fixedEnviron{charmDir: charmDir}, "from-unit"))
}

func TestOSEnviron(t *testing.T) {
	t.Setenv(domain.EnvJujuAddresses, "1.2.3.4:17070")
	t.Setenv(domain.EnvCharmDir, "/tmp/charm")

	env := OSEnviron{}
	assert.Equal(t, "1.2.3.4:17070", env.Getenv(domain.EnvJujuAddresses))
	assert.Equal(t, "/tmp/charm", env.CharmDir())
}
