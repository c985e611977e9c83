// Package transfer moves skin configuration between devices: backup of the
// destination, the copy itself, and the media-center restart afterward.
package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"skinsync/internal/config"
	"skinsync/internal/errors"
	"skinsync/internal/util"
	"skinsync/pkg/sshutil"
)

// skinPlaceholder marks the active skin id in category paths.
const skinPlaceholder = "${SKIN}"

// ExpandPath substitutes the active skin id into a category path.
func ExpandPath(path, skin string) string {
	return strings.ReplaceAll(path, skinPlaceholder, skin)
}

// CategoryPaths resolves the selected categories into Kodi-home-relative
// paths, expanding ${SKIN}. Unknown category names are an error; a path
// needing ${SKIN} when no skin id is known is too.
func CategoryPaths(cfg *config.Config, skin string, categories []string) ([]string, error) {
	var paths []string
	for _, name := range categories {
		cat, ok := cfg.Categories[name]
		if !ok {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown category: %s", name),
				fmt.Sprintf("Available categories: %s", strings.Join(cfg.CategoryNames(), ", ")))
		}
		for _, p := range cat.Paths {
			if strings.Contains(p, skinPlaceholder) && skin == "" {
				return nil, errors.New(errors.ErrConfig,
					fmt.Sprintf("Category '%s' needs the active skin id and none was detected", name),
					"Set kodi.skin in the config, or install a skin.* addon first")
			}
			paths = append(paths, ExpandPath(p, skin))
		}
	}
	return paths, nil
}

// DetectSkin finds the active skin id by picking the most recently modified
// skin.* directory under the local addon_data. Returns "" when none exists.
func DetectSkin(kodiHome string) string {
	addonData := filepath.Join(kodiHome, "userdata", "addon_data")
	entries, err := os.ReadDir(addonData)
	if err != nil {
		return ""
	}

	type candidate struct {
		name    string
		modTime int64
	}
	var candidates []candidate

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "skin.") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{entry.Name(), info.ModTime().UnixNano()})
	}

	if len(candidates) == 0 {
		return ""
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})
	return candidates[0].name
}

// DetectSkinRemote finds the active skin id on a device by listing the
// newest skin.* directory under its addon_data. Returns "" when none exists.
func DetectSkinRemote(client sshutil.SSHClient, kodiHome string) string {
	addonData := kodiHome + "/userdata/addon_data"
	cmd := fmt.Sprintf("ls -td %s/skin.*/ 2>/dev/null | head -1", util.ShellQuote(addonData))

	stdout, _, exitCode, err := client.Exec(cmd)
	if err != nil || exitCode != 0 {
		return ""
	}

	line := strings.TrimSpace(string(stdout))
	if line == "" {
		return ""
	}
	return filepath.Base(strings.TrimSuffix(line, "/"))
}

// IsKodiDevice reports whether the device looks like a Kodi box by checking
// for the Kodi home directory.
func IsKodiDevice(client sshutil.SSHClient, kodiHome string) bool {
	_, _, exitCode, err := client.Exec(fmt.Sprintf("test -d %s", util.ShellQuote(kodiHome)))
	return err == nil && exitCode == 0
}
