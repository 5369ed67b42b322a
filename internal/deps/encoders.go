package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OutputRunner runs a command and returns its standard output.
type OutputRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output() //nolint:gosec
}

// CheckEncoders reports whether the ffmpeg build at binary provides every
// named encoder. Clip output needs libx264 and aac.
func CheckEncoders(ctx context.Context, binary string, encoders []string, run OutputRunner) Status {
	if run == nil {
		run = execOutput
	}
	status := Status{
		Name:        "FFmpeg encoders",
		Command:     binary,
		Description: "Required to encode H.264/AAC clips",
	}
	out, err := run(ctx, binary, "-hide_banner", "-encoders")
	if err != nil {
		status.Detail = fmt.Sprintf("list encoders: %v", err)
		return status
	}

	available := parseEncoders(out)
	var missing []string
	for _, name := range encoders {
		if !available[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		status.Detail = "missing " + strings.Join(missing, ", ")
		return status
	}
	status.Available = true
	return status
}

// parseEncoders reads `ffmpeg -encoders` output. Entries follow the legend
// separator line and look like " V....D libx264   H.264 ...".
func parseEncoders(out []byte) map[string]bool {
	found := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	listing := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "------") {
			listing = true
			continue
		}
		if !listing {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			found[fields[1]] = true
		}
	}
	return found
}
