package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/img2dcm/pkg/dicom/uid"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img2dcm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8765", cfg.Server.Addr)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:3000")
	assert.Equal(t, uid.DefaultRoot, cfg.Conversion.UIDRoot)
	assert.Equal(t, "XCENTIC_STATION", cfg.Conversion.StationName)
	assert.Equal(t, "UNKNOWN^PATIENT", cfg.Defaults.PatientName)
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Addr, cfg.Server.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  allowed_origins: ["https://viewer.example.org"]
  read_timeout: 5s
conversion:
  workers: 2
  station_name: LAB1
  uid_root: "1.2.3.4"
defaults:
  institution_name: General Hospital
log:
  level: debug
  json: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://viewer.example.org"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, Default().Server.MaxUploadBytes, cfg.Server.MaxUploadBytes, "unset keys keep defaults")
	assert.Equal(t, 2, cfg.Conversion.Workers)
	assert.Equal(t, "LAB1", cfg.Conversion.StationName)
	assert.Equal(t, "XCENTIC_UPLOADER", cfg.Conversion.ManufacturerModelName)
	assert.Equal(t, "1.2.3.4", cfg.Conversion.UIDRoot)
	assert.Equal(t, "General Hospital", cfg.Defaults.InstitutionName)
	assert.Equal(t, "XCENTIC", cfg.Defaults.Manufacturer)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `
server:
  max_upload_bytes: 0
conversion:
  workers: -1
  uid_root: "1.02"
log:
  level: loud
`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "max_upload_bytes")
	assert.ErrorContains(t, err, "workers")
	assert.ErrorContains(t, err, "uid_root")
	assert.ErrorContains(t, err, "log.level")
}

func TestLoad_Example(t *testing.T) {
	cfg, err := Load("../../img2dcm.example.yaml")
	require.NoError(t, err)

	def := Default()
	def.Conversion.Workers = 4
	assert.Equal(t, def, cfg)
}
