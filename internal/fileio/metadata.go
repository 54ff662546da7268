package fileio

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
)

// Stat returns full metadata per path. Detection of the MIME type is
// best effort and only attempted for regular files.
func Stat(paths []string) []StatResult {
	results := make([]StatResult, 0, len(paths))
	for _, path := range paths {
		result, err := statSingle(path)
		if err != nil {
			status, exists := errorStatus(err)
			results = append(results, StatResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, *result)
	}
	return results
}

func statSingle(path string) (*StatResult, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	linfo, err := os.Lstat(expanded)
	if err != nil {
		return nil, err
	}
	isSymlink := linfo.Mode()&os.ModeSymlink != 0

	info := linfo
	if isSymlink {
		// Follow the link for size and permissions; a broken link
		// falls back to the link's own metadata.
		if followed, err := os.Stat(expanded); err == nil {
			info = followed
		}
	}

	result := &StatResult{
		Path:      expanded,
		Status:    StatusOK,
		Type:      entryType(linfo),
		Size:      info.Size(),
		Mode:      fmt.Sprintf("%04o", info.Mode().Perm()),
		Modified:  info.ModTime().Unix(),
		IsFile:    info.Mode().IsRegular(),
		IsDir:     info.IsDir(),
		IsSymlink: isSymlink,
		Exists:    true,
	}

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		result.Accessed = st.Atim.Sec
		result.Created = st.Ctim.Sec
	}

	if result.IsFile {
		if mt, err := mimetype.DetectFile(expanded); err == nil {
			result.MimeType = mt.String()
		}
	}
	return result, nil
}

// SetMode applies the same octal mode to every path.
func SetMode(paths []string, mode string) ([]OpResult, error) {
	bits, err := parseMode(mode)
	if err != nil {
		return nil, err
	}

	results := make([]OpResult, 0, len(paths))
	for _, path := range paths {
		if err := setModeSingle(path, bits); err != nil {
			status, exists := errorStatus(err)
			results = append(results, OpResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, OpResult{Path: path, Status: StatusOK, Exists: true})
	}
	return results, nil
}

func setModeSingle(path string, bits os.FileMode) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err != nil {
		return err
	}
	return os.Chmod(expanded, bits)
}

// GetMode reports each path's permission bits as an octal string.
func GetMode(paths []string) []ModeResult {
	results := make([]ModeResult, 0, len(paths))
	for _, path := range paths {
		mode, err := getModeSingle(path)
		if err != nil {
			status, exists := errorStatus(err)
			results = append(results, ModeResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, ModeResult{Path: path, Status: StatusOK, Mode: mode, Exists: true})
	}
	return results
}

func getModeSingle(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04o", info.Mode().Perm()), nil
}

// parseMode accepts octal permission strings such as "755" or "0644".
func parseMode(mode string) (os.FileMode, error) {
	trimmed := strings.TrimPrefix(mode, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	bits, err := strconv.ParseUint(trimmed, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode format: %s (expected octal like 755 or 0644)", mode)
	}
	return os.FileMode(bits), nil
}

// Chown changes ownership per path. Only numeric ids are accepted; -1
// leaves the corresponding id unchanged.
func Chown(paths []string, user, group string) ([]OpResult, error) {
	if user == "" && group == "" {
		return nil, fmt.Errorf("at least one of user or group must be provided")
	}

	uid, err := parseID(user, "user")
	if err != nil {
		return nil, err
	}
	gid, err := parseID(group, "group")
	if err != nil {
		return nil, err
	}

	results := make([]OpResult, 0, len(paths))
	for _, path := range paths {
		if err := chownSingle(path, uid, gid); err != nil {
			status, exists := errorStatus(err)
			results = append(results, OpResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, OpResult{Path: path, Status: StatusOK, Exists: true})
	}
	return results, nil
}

func parseID(value, field string) (int, error) {
	if value == "" {
		return -1, nil
	}
	id, err := strconv.Atoi(value)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%s must be a numeric id, got %q", field, value)
	}
	return id, nil
}

func chownSingle(path string, uid, gid int) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err != nil {
		return err
	}
	return os.Chown(expanded, uid, gid)
}
