package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFileLog(t *testing.T) {
	dir := t.TempDir()
	tables := map[int32]*Log{}
	for i := int32(1); i <= 8; i++ {
		tables[i] = NewFileLog(filepath.Join(dir, fmt.Sprintf("table_%d.log", i)))
	}

	tables[1].WriteLog("[Enter] uid=%d chair=%d", 1001813, 0)
	tables[1].WriteLog("[Enter] uid=%d chair=%d", 1001814, 1)
	tables[5].Infow("[Dice]", "color", "Red", "dice", 6)
	for _, l := range tables {
		require.NoError(t, l.Close())
	}

	b, err := os.ReadFile(filepath.Join(dir, "table_1.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "["))
	require.Contains(t, lines[1], "uid=1001814 chair=1")

	b, err = os.ReadFile(filepath.Join(dir, "table_5.log"))
	require.NoError(t, err)
	require.Contains(t, string(b), `"dice": 6`)

	_, err = os.Stat(filepath.Join(dir, "table_2.log"))
	require.True(t, os.IsNotExist(err))
}
