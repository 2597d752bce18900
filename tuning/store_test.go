package tuning

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/skidpad/status"
)

const storePath = "/cfg/car.toml"

// writeParams writes content and moves the mtime forward so the change is observable
func writeParams(t *testing.T, fsys afero.Fs, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, storePath, []byte(content), 0o644))
	require.NoError(t, fsys.Chtimes(storePath, mtime, mtime))
}

func TestStoreOpenLoadsFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeParams(t, fsys, sampleTOML, time.Unix(1000, 0))

	reg := status.NewRegistry()
	s, err := Open(fsys, storePath, WithRegistry(reg))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), s.Version())
	assert.Equal(t, 1400.0, s.Current().Chassis.Mass)
	assert.NoError(t, s.LastError())
	assert.Equal(t, int64(1), reg.Ints.Get(status.ConfigVersion).Load())
}

func TestStoreOpenFallsBackToDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()

	s, err := Open(fsys, storePath)
	require.NoError(t, err)
	assert.Equal(t, Default(), s.Current())
	assert.Equal(t, uint64(0), s.Version())

	var perr *ConfigParseError
	require.True(t, errors.As(s.LastError(), &perr))
	assert.Equal(t, storePath, perr.Path)
}

func TestStoreOpenRejectsUnknownExtension(t *testing.T) {
	_, err := Open(afero.NewMemMapFs(), "/cfg/car.ini")
	assert.Error(t, err)
}

func TestStoreReloadValidChange(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeParams(t, fsys, sampleTOML, time.Unix(1000, 0))
	s, err := Open(fsys, storePath)
	require.NoError(t, err)
	before := s.Current()

	changed, err := s.PollAndReload()
	require.NoError(t, err)
	assert.False(t, changed, "unchanged file must not republish")

	writeParams(t, fsys, strings.Replace(sampleTOML, "drag = 0.4", "drag = 0.9", 1), time.Unix(1001, 0))
	changed, err = s.PollAndReload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0.9, s.Current().Aero.Drag)
	assert.Equal(t, uint64(2), s.Version())

	// published snapshots are never mutated
	assert.Equal(t, 0.4, before.Aero.Drag)
}

func TestStoreReloadInvalidKeepsSnapshot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeParams(t, fsys, sampleTOML, time.Unix(1000, 0))
	reg := status.NewRegistry()
	s, err := Open(fsys, storePath, WithRegistry(reg))
	require.NoError(t, err)
	before := s.Current()

	writeParams(t, fsys, strings.Replace(sampleTOML, "mass = 1400", "mass = -1.0", 1), time.Unix(1001, 0))
	changed, err := s.PollAndReload()
	assert.False(t, changed)

	var perr *ConfigParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Error(), "chassis.mass")
	assert.Same(t, before, s.Current())
	assert.Equal(t, uint64(1), s.Version())
	assert.Equal(t, int64(1), reg.Ints.Get(status.ConfigReloadFailures).Load())
	assert.NotEmpty(t, reg.Strings.Get(status.ConfigLastError).Load())

	// touching the broken file again does not count a second failure
	require.NoError(t, fsys.Chtimes(storePath, time.Unix(1002, 0), time.Unix(1002, 0)))
	_, err = s.PollAndReload()
	assert.Error(t, err)
	assert.Equal(t, int64(1), reg.Ints.Get(status.ConfigReloadFailures).Load())

	// fixing the file clears the diagnostic
	writeParams(t, fsys, strings.Replace(sampleTOML, "mass = 1400", "mass = 1500", 1), time.Unix(1003, 0))
	changed, err = s.PollAndReload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, s.LastError())
	assert.Empty(t, reg.Strings.Get(status.ConfigLastError).Load())
	assert.Equal(t, 1500.0, s.Current().Chassis.Mass)
}

func TestStoreIdenticalContentNotRepublished(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeParams(t, fsys, sampleTOML, time.Unix(1000, 0))
	s, err := Open(fsys, storePath)
	require.NoError(t, err)

	writeParams(t, fsys, sampleTOML, time.Unix(2000, 0))
	changed, err := s.PollAndReload()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, uint64(1), s.Version())
}

func TestStoreMissingFileReportedOnce(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeParams(t, fsys, sampleTOML, time.Unix(1000, 0))
	s, err := Open(fsys, storePath)
	require.NoError(t, err)

	var events []ReloadEvent
	s.OnReload(func(ev ReloadEvent) { events = append(events, ev) })

	require.NoError(t, fsys.Remove(storePath))
	_, err = s.PollAndReload()
	require.Error(t, err)
	_, err = s.PollAndReload()
	require.Error(t, err)
	require.Len(t, events, 1)
	assert.Error(t, events[0].Err)
	assert.Equal(t, 1400.0, s.Current().Chassis.Mass)

	writeParams(t, fsys, strings.Replace(sampleTOML, "drag = 0.4", "drag = 0.5", 1), time.Unix(1001, 0))
	changed, err := s.PollAndReload()
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, events, 2)
	assert.NoError(t, events[1].Err)
	assert.Equal(t, uint64(2), events[1].Version)
}

func TestStoreYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	var buf bytes.Buffer
	p := Default()
	p.Engine.RearBias = 1
	require.NoError(t, Encode(&buf, p, FormatYAML))
	require.NoError(t, afero.WriteFile(fsys, "/cfg/rwd.yaml", buf.Bytes(), 0o644))

	s, err := Open(fsys, "/cfg/rwd.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Current().Engine.RearBias)
}

func TestLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeParams(t, fsys, sampleTOML, time.Unix(1000, 0))

	p, err := Load(fsys, storePath)
	require.NoError(t, err)
	assert.Equal(t, 2.6, p.Chassis.Wheelbase)

	_, err = Load(fsys, "/cfg/none.toml")
	var perr *ConfigParseError
	assert.True(t, errors.As(err, &perr))
}

func TestStoreConcurrentReaders(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeParams(t, fsys, sampleTOML, time.Unix(1000, 0))
	s, err := Open(fsys, storePath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				p := s.Current()
				if p == nil || p.Chassis.Mass <= 0 {
					t.Error("reader observed an invalid snapshot")
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		content := sampleTOML
		if i%2 == 1 {
			content = strings.Replace(sampleTOML, "mass = 1400", "mass = 0.0", 1)
		} else {
			content = strings.Replace(sampleTOML, "drag = 0.4", "drag = 0."+strings.Repeat("1", i+1), 1)
		}
		writeParams(t, fsys, content, time.Unix(int64(1001+i), 0))
		s.PollAndReload()
	}
	cancel()
	wg.Wait()
}

func TestStoreWatchPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "car.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	s, err := Open(afero.NewOsFs(), path, WithPollInterval(20*time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, uint64(1), s.Version())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	updated := strings.Replace(sampleTOML, "drag = 0.4", "drag = 0.75", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	require.Eventually(t, func() bool {
		return s.Current().Aero.Drag == 0.75
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancellation")
	}
}
