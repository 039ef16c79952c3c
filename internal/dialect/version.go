package dialect

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnsupportedServer is returned for servers without a native json type.
var ErrUnsupportedServer = errors.New("server does not support the json type")

// ServerType distinguishes MySQL from MariaDB.
type ServerType int

const (
	ServerMySQL ServerType = iota
	ServerMariaDB
)

func (t ServerType) String() string {
	if t == ServerMariaDB {
		return "MariaDB"
	}
	return "MySQL"
}

// ServerVersion is a parsed server version string.
type ServerVersion struct {
	Type  ServerType
	Major int
	Minor int
	Patch int
}

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?`)

// mariaDBReplicationPrefix is prepended to MariaDB versions reported over the wire.
const mariaDBReplicationPrefix = "5.5.5-"

// ParseServerVersion parses strings like "8.0.34", "8.0.34-0ubuntu0.22.04.1"
// or "10.6.12-MariaDB".
func ParseServerVersion(s string) (ServerVersion, error) {
	raw := strings.TrimSpace(s)
	var v ServerVersion
	if strings.Contains(strings.ToLower(raw), "mariadb") {
		v.Type = ServerMariaDB
		raw = strings.TrimPrefix(raw, mariaDBReplicationPrefix)
	}

	m := versionPattern.FindStringSubmatch(raw)
	if m == nil {
		return ServerVersion{}, fmt.Errorf("invalid server version %q", s)
	}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	return v, nil
}

// MustParseServerVersion panics on error.
func MustParseServerVersion(s string) ServerVersion {
	v, err := ParseServerVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v ServerVersion) String() string {
	return fmt.Sprintf("%s %d.%d.%d", v.Type, v.Major, v.Minor, v.Patch)
}

// AtLeast compares the numeric version, ignoring the server type.
func (v ServerVersion) AtLeast(major, minor, patch int) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// SupportsJSON reports whether the server has a json column type.
// MySQL added it in 5.7.8 and MariaDB (as a longtext alias) in 10.2.7.
func (v ServerVersion) SupportsJSON() bool {
	if v.Type == ServerMariaDB {
		return v.AtLeast(10, 2, 7)
	}
	return v.AtLeast(5, 7, 8)
}

// SupportsJSONOverlaps reports whether JSON_OVERLAPS is available.
func (v ServerVersion) SupportsJSONOverlaps() bool {
	if v.Type == ServerMariaDB {
		return v.AtLeast(10, 9, 0)
	}
	return v.AtLeast(8, 0, 17)
}

// CheckJSON returns an error wrapping ErrUnsupportedServer when SupportsJSON is false.
func (v ServerVersion) CheckJSON() error {
	if !v.SupportsJSON() {
		return fmt.Errorf("%s: %w", v, ErrUnsupportedServer)
	}
	return nil
}
