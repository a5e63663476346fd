package sandbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kanelabs/bocker/pkg/types"
)

type fakeStore struct {
	existing map[string]bool
}

func (f *fakeStore) Exists(id string) bool                      { return f.existing[id] }
func (f *fakeStore) SnapshotVolume(src, dst string) error        { return nil }
func (f *fakeStore) DeleteVolume(id string) error                { return nil }
func (f *fakeStore) Path(id string, elem ...string) string       { return "/tmp/" + id }
func (f *fakeStore) WriteMeta(id, rel string, data []byte) error { return nil }

func TestRunRejectsEmptyCommand(t *testing.T) {
	l := &Launcher{Store: &fakeStore{existing: map[string]bool{"img_1": true}}}
	_, err := l.Run("img_1", "   ", false)
	assert.ErrorIs(t, err, types.ErrUsage)
}

func TestRunRejectsMissingImage(t *testing.T) {
	l := &Launcher{Store: &fakeStore{existing: map[string]bool{}}}
	_, err := l.Run("img_missing", "echo hi", false)
	assert.ErrorIs(t, err, types.ErrNoSuchEntity)
}

type fakeExecer struct {
	exists bool
	pid    []byte
	pidErr error
}

func (f *fakeExecer) Exists(id string) bool { return f.exists }
func (f *fakeExecer) Path(id string, elem ...string) string {
	return "/tmp/" + id
}
func (f *fakeExecer) ReadMeta(id, rel string) ([]byte, error) { return f.pid, f.pidErr }

func TestExecIntoNoSuchEntity(t *testing.T) {
	err := ExecInto(&fakeExecer{exists: false}, "ps_1", "echo hi")
	assert.ErrorIs(t, err, types.ErrNoSuchEntity)
}

func TestExecIntoNotRunningNoPidFile(t *testing.T) {
	err := ExecInto(&fakeExecer{exists: true, pidErr: errors.New("no file")}, "ps_1", "echo hi")
	assert.ErrorIs(t, err, types.ErrNotRunning)
}

func TestExecIntoNotRunningZeroPid(t *testing.T) {
	err := ExecInto(&fakeExecer{exists: true, pid: []byte("0")}, "ps_1", "echo hi")
	assert.ErrorIs(t, err, types.ErrNotRunning)
}
