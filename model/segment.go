package model

import "fmt"

// FormatVersion is the segment layout version written by this module.
const FormatVersion = 1

// MetadataFileName is the blob name holding a segment's SegmentMetadata.
const MetadataFileName = "metadata.json"

// SegmentMetadata is the persisted description of a segment.
type SegmentMetadata struct {
	Name      string           `json:"segmentName"`
	Version   int              `json:"version"`
	TotalDocs int              `json:"totalDocs"`
	Columns   []ColumnMetadata `json:"columns"`

	// Checksums maps buffer blob names to their CRC32-C checksum.
	// Buffers without an entry are not verified.
	Checksums map[string]uint32 `json:"checksums,omitempty"`
}

// Column returns the metadata of the named column.
func (m *SegmentMetadata) Column(name string) (*ColumnMetadata, bool) {
	for i := range m.Columns {
		if m.Columns[i].Name == name {
			return &m.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns column names in persisted order.
func (m *SegmentMetadata) ColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i := range m.Columns {
		names[i] = m.Columns[i].Name
	}
	return names
}

// Validate checks segment-wide invariants and every column.
func (m *SegmentMetadata) Validate() error {
	if m.Version != FormatVersion {
		return fmt.Errorf("%w: segment %q: unsupported version %d", ErrInvalidMetadata, m.Name, m.Version)
	}
	seen := make(map[string]struct{}, len(m.Columns))
	for i := range m.Columns {
		c := &m.Columns[i]
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: segment %q: duplicate column %q", ErrInvalidMetadata, m.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.TotalDocs != m.TotalDocs {
			return fmt.Errorf("%w: segment %q: column %q has %d docs, segment has %d",
				ErrInvalidMetadata, m.Name, c.Name, c.TotalDocs, m.TotalDocs)
		}
	}
	return nil
}
