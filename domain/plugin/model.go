// Package plugin implements the plugin-version catalogue: the SemVer
// registry game servers authenticate against, and the per-version
// checksums (binary, mode, style) that gate handshake and submission.
package plugin

// ChecksumKind distinguishes the three checksum subjects a plugin version
// carries: the plugin binary itself, a per-mode checksum ("mode_md5"), and
// a per-style checksum.
type ChecksumKind string

const (
	ChecksumBinary ChecksumKind = "binary"
	ChecksumMode   ChecksumKind = "mode"
	ChecksumStyle  ChecksumKind = "style"
)

// Version is a row in the PluginVersions table.
type Version struct {
	ID       uint64 `gorm:"primaryKey"`
	SemVer   string `gorm:"column:semver;not null;uniqueIndex"`
	IsLatest bool   `gorm:"column:is_latest;not null;default:false"`
}

// TableName pins the GORM table name.
func (Version) TableName() string { return "plugin_versions" }

// Checksum is a row in the PluginVersionChecksums table.
type Checksum struct {
	PluginVersionID uint64       `gorm:"column:plugin_version_id;not null;uniqueIndex:idx_checksum_key"`
	Kind            ChecksumKind `gorm:"column:kind;not null;uniqueIndex:idx_checksum_key"`
	// Subject disambiguates within Kind: the mode name for ChecksumMode, the
	// style name for ChecksumStyle, empty for ChecksumBinary.
	Subject  string `gorm:"column:subject;not null;default:'';uniqueIndex:idx_checksum_key"`
	Checksum []byte `gorm:"column:checksum;not null"` // MD5 or SHA-256 digest, kind-dependent
	// Bit is the style's position in the Records.styles bitset. Only
	// meaningful when Kind is ChecksumStyle; the plugin version, not this
	// catalogue, owns the assignment.
	Bit uint8 `gorm:"column:bit;not null;default:0"`
}

// TableName pins the GORM table name.
func (Checksum) TableName() string { return "plugin_version_checksums" }
