package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const probeTimeout = 5 * time.Second

// Binary names an external tool and how to ask it for a version banner.
type Binary struct {
	Name        string
	Command     string
	VersionArgs []string
	// Optional tools only limit what subgen can do when missing.
	Optional bool
	Purpose  string
}

// Status is the outcome of probing a Binary.
type Status struct {
	Name      string
	Path      string
	Purpose   string
	Optional  bool
	Available bool
	// Detail is the version banner when available, otherwise the reason.
	Detail string
}

// Probe resolves b on PATH and runs it with VersionArgs. A binary that
// resolves but exits non-zero is reported unavailable.
func Probe(ctx context.Context, b Binary) Status {
	status := Status{
		Name:     b.Name,
		Path:     strings.TrimSpace(b.Command),
		Purpose:  b.Purpose,
		Optional: b.Optional,
	}
	if status.Path == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(status.Path)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Path)
		return status
	}
	status.Path = resolved
	if len(b.VersionArgs) == 0 {
		status.Available = true
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, resolved, b.VersionArgs...).Output() //nolint:gosec
	if err != nil {
		status.Detail = "version probe failed: " + err.Error()
		return status
	}
	status.Available = true
	status.Detail = firstLine(out)
	return status
}

func firstLine(out []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}
