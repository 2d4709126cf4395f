package snpstat

import (
	"os/user"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ExpandHome expands ~ to its proper path, where appropriate.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.WithError(err).Warn("Could not expand the home directory")
			return path
		}
		path = filepath.Join(usr.HomeDir, (path)[2:])
	}

	return path
}
