package lifecycle

import (
	"context"
	"fmt"
	"os"

	"github.com/seekgits/seekgits/internal/audit"
)

// maxTrackedFileSize flags tracked files larger than this as a doctor
// finding: the filter engine buffers a whole file twice over (plaintext
// and ciphertext) so very large tracked files risk memory pressure in
// the host VCS's filter subprocess.
const maxTrackedFileSize = 100 * 1024 * 1024

// Severity classifies a DoctorFinding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DoctorFinding is one read-only diagnostic observation. Doctor fixes
// nothing; it only reports.
type DoctorFinding struct {
	Path     string
	Message  string
	Severity Severity
}

// Doctor cross-checks the manifest against the attribute file,
// confirms the asymmetric provider is reachable, and flags tracked
// paths that are missing from disk or oversized.
func (l *Lifecycle) Doctor(ctx context.Context) ([]DoctorFinding, error) {
	var findings []DoctorFinding

	if !l.Provider.Available(ctx) {
		findings = append(findings, DoctorFinding{
			Message:  "external asymmetric provider is not reachable",
			Severity: SeverityError,
		})
	}

	manifestPaths, err := l.Store.ListTrackedPaths()
	if err != nil {
		return nil, err
	}
	attrPaths, err := l.Attrs.ListFiltered()
	if err != nil {
		return nil, err
	}

	inAttrs := make(map[string]bool, len(attrPaths))
	for _, p := range attrPaths {
		inAttrs[p] = true
	}
	inManifest := make(map[string]bool, len(manifestPaths))
	for _, p := range manifestPaths {
		inManifest[p] = true
	}

	for _, p := range manifestPaths {
		if !inAttrs[p] {
			findings = append(findings, DoctorFinding{
				Path:     p,
				Message:  "tracked in the manifest but missing its attribute line",
				Severity: SeverityError,
			})
		}
	}
	for _, p := range attrPaths {
		if !inManifest[p] {
			findings = append(findings, DoctorFinding{
				Path:     p,
				Message:  "has an attribute line but no manifest entry",
				Severity: SeverityError,
			})
		}
	}

	for _, p := range manifestPaths {
		info, err := os.Stat(l.abs(p))
		if err != nil {
			if os.IsNotExist(err) {
				findings = append(findings, DoctorFinding{
					Path:     p,
					Message:  "tracked path no longer exists in the working directory",
					Severity: SeverityWarning,
				})
			}
			continue
		}
		if info.Size() > maxTrackedFileSize {
			findings = append(findings, DoctorFinding{
				Path:     p,
				Message:  fmt.Sprintf("working file is %d bytes, over the %d byte soft limit", info.Size(), maxTrackedFileSize),
				Severity: SeverityInfo,
			})
		}
	}

	audit.Log(l.Root, audit.Entry{Operation: "doctor", FindingsCount: len(findings)})
	return findings, nil
}
