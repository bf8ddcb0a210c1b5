package version

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/phobost/cmd/application"
)

func TestNewCommand(t *testing.T) {
	app := &application.Mock{
		VersionFunc: func() string { return "v1.2.3" },
		CommitFunc:  func() string { return "abc123" },
	}

	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "phobost version v1.2.3\n")
	assert.Contains(t, out.String(), "commit: abc123\n")
	assert.Contains(t, out.String(), "built by: test\n")
	assert.Contains(t, out.String(), "platform: "+runtime.GOOS+"/"+runtime.GOARCH+"\n")
}
