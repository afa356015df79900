package lsp

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const outputIndent = "    "

// OutputTap tracks read offsets into the capture files of a subprocess's
// stdout and stderr so that each poll returns only output produced since
// the previous poll. Offsets only ever move forward.
type OutputTap struct {
	stdout io.ReadSeeker
	stderr io.ReadSeeker

	stdoutOffset int64
	stderrOffset int64

	// echoOut and echoErr receive an indented copy of everything polled.
	echoOut io.Writer
	echoErr io.Writer
}

// NewOutputTap creates a tap over the two capture sinks, echoing polled
// output to the harness's own stdout and stderr.
func NewOutputTap(stdout, stderr io.ReadSeeker) *OutputTap {
	return &OutputTap{
		stdout:  stdout,
		stderr:  stderr,
		echoOut: os.Stdout,
		echoErr: os.Stderr,
	}
}

// SetEcho redirects the indented echo of polled output. Passing nil
// silences a stream.
func (t *OutputTap) SetEcho(out, err io.Writer) {
	t.echoOut = out
	t.echoErr = err
}

// Poll reads all bytes appended to both sinks since the last poll,
// advancing the stored offsets. Either returned string may be empty.
func (t *OutputTap) Poll() (stdout, stderr string, err error) {
	stdout, err = pollSink(t.stdout, &t.stdoutOffset)
	if err != nil {
		return "", "", fmt.Errorf("polling stdout: %w", err)
	}
	if t.echoOut != nil {
		fmt.Fprint(t.echoOut, indentOutput(stdout))
	}

	stderr, err = pollSink(t.stderr, &t.stderrOffset)
	if err != nil {
		return "", "", fmt.Errorf("polling stderr: %w", err)
	}
	if t.echoErr != nil {
		fmt.Fprint(t.echoErr, indentOutput(stderr))
	}

	return stdout, stderr, nil
}

// pollSink reads from the stored offset to the current end of the sink and
// advances the offset by exactly the number of bytes read, so writes that
// land mid-poll are picked up by the next poll rather than lost.
func pollSink(sink io.ReadSeeker, offset *int64) (string, error) {
	if _, err := sink.Seek(*offset, io.SeekStart); err != nil {
		return "", err
	}
	data, err := io.ReadAll(sink)
	if err != nil {
		return "", err
	}
	*offset += int64(len(data))
	// Leave the cursor at end-of-file so a subprocess sharing the
	// descriptor keeps appending at the end. The stored offset still only
	// advances by what was read, so bytes written mid-poll are not lost.
	if _, err := sink.Seek(0, io.SeekEnd); err != nil {
		return "", err
	}
	return string(data), nil
}

// indentOutput prefixes every line of captured subprocess output so it is
// visually distinct from the harness's own messages.
func indentOutput(output string) string {
	if len(output) == 0 {
		return ""
	}
	indented := outputIndent + strings.ReplaceAll(output, "\n", "\n"+outputIndent)
	if strings.HasSuffix(output, "\n") {
		indented = indented[:len(indented)-len(outputIndent)]
	}
	return indented
}
