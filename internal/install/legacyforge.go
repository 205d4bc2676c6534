package install

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/xi2/xz"

	"github.com/conicapps/launcher-core/internal/conicerr"
	"github.com/conicapps/launcher-core/internal/platform"
)

// legacyPackMajor is the Forge major version below which libraries are
// only published as `.jar.pack.xz` (pre-1.13 Minecraft, Forge <14),
// per spec.md §9's legacy-compatibility note.
const legacyPackMajor = 14

// repairLegacyLibraries fills in any library jar still missing after
// the main Forge installer ran, for the pre-1.13 era where libraries
// were published pack200+xz compressed rather than as plain jars.
// Grounded on the teacher's forge.go downloadXzPack/signatureLen/
// invokeUnpack200 trio, generalised from a single hard-coded retry
// path to a sweep over every library still absent on disk.
func (p *Pipeline) repairLegacyLibraries(libs []legacyLibraryRef) error {
	for _, lib := range libs {
		if _, err := os.Stat(lib.TargetPath); err == nil {
			continue
		}
		resp, err := p.deps.HTTP.Get(lib.URL + ".pack.xz")
		if err != nil {
			return conicerr.Network(err)
		}
		err = unpackXZLibrary(resp.Body, lib.TargetPath)
		resp.Body.Close()
		if err != nil {
			return conicerr.ForgeInstallerFailed(err)
		}
	}
	return nil
}

// legacyLibraryRef is the minimal shape repairLegacyLibraries needs
// from a resolved version's library list.
type legacyLibraryRef struct {
	URL        string
	TargetPath string
}

// unpackXZLibrary decompresses an xz-wrapped pack200 stream, strips
// the trailing Mojang signature block, and invokes the system
// unpack200 tool to materialise the final jar at targetPath.
func unpackXZLibrary(r io.Reader, targetPath string) error {
	xzReader, err := xz.NewReader(r, 0)
	if err != nil {
		return fmt.Errorf("unexpected xz error: %w", err)
	}

	var packData bytes.Buffer
	packSz, err := packData.ReadFrom(xzReader)
	if err != nil {
		return fmt.Errorf("failed to decompress pack stream: %w", err)
	}

	data := packData.Bytes()
	sigLen, err := packSignatureLen(data)
	if err != nil {
		return err
	}

	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmpPack := filepath.Join(dir, "tmp.pack")
	if err := os.WriteFile(tmpPack, data[:packSz-sigLen], 0o644); err != nil {
		return err
	}
	defer os.Remove(tmpPack)

	return invokeUnpack200(tmpPack, targetPath)
}

// packSignatureLen reads the trailing "SIGN"+uint32 length footer
// pack200 streams carry, per the teacher's signatureLen.
func packSignatureLen(data []byte) (int64, error) {
	n := len(data)
	if n < 8 || string(data[n-4:n]) != "SIGN" {
		return 0, fmt.Errorf("invalid pack200 signature footer")
	}
	var sigLen uint32
	if err := binary.Read(bytes.NewReader(data[n-8:n-4]), binary.LittleEndian, &sigLen); err != nil {
		return 0, fmt.Errorf("invalid signature length: %w", err)
	}
	return int64(sigLen) + 8, nil
}

func invokeUnpack200(packPath, jarPath string) error {
	cmd := exec.Command(unpack200Cmd(), "-r", packPath, jarPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("unpack200 failed: %w (%s)", err, out)
	}
	return nil
}

func unpack200Cmd() string {
	if platform.Current.OSFamily == platform.Windows {
		return "unpack200.exe"
	}
	return "unpack200"
}
