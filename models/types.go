// Package models contain needed models
package models

// StegoRequest represents the form fields of an injection request
type StegoRequest struct {
	Key       string `form:"key" json:"key" binding:"required,max=256"`
	Payload   string `form:"payload" json:"payload"`
	Offset    string `form:"offset" json:"offset"`
	ChunkType string `form:"chunk_type" json:"chunk_type"`
	Format    string `form:"format" json:"format"`
	Compress  bool   `form:"compress" json:"compress"`
}

// StegoResponse represents an error or status response
type StegoResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ExtractRequest represents the form fields of an extraction request
type ExtractRequest struct {
	Key      string `form:"key" json:"key" binding:"required,max=256"`
	Offset   string `form:"offset" json:"offset"`
	Format   string `form:"format" json:"format"`
	Compress bool   `form:"compress" json:"compress"`
}

// ExtractResponse is returned when the caller asks for JSON instead of raw bytes
type ExtractResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Offset  uint64 `json:"offset"`
	Length  int    `json:"length"`
	// Text is the secret decoded lossily as UTF-8.
	Text string `json:"text"`
}

// MetaRequest selects which entries of a chunk/segment list are returned.
// Start is 1-based and inclusive, End is exclusive.
type MetaRequest struct {
	Format string `form:"format" json:"format"`
	Start  int    `form:"start" json:"start"`
	End    int    `form:"end" json:"end"`
	Count  int    `form:"count" json:"count"`
}

// ChunkInfo is a report row for one PNG chunk
type ChunkInfo struct {
	Index       int    `json:"index"`
	Type        string `json:"type"`
	StartOffset int    `json:"start_offset"`
	DataOffset  int    `json:"data_offset"`
	Length      uint32 `json:"length"`
	CRC         string `json:"crc"`
	CRCValid    bool   `json:"crc_valid"`
	Critical    bool   `json:"critical"`
}

// SegmentInfo is a report row for one JPEG marker segment
type SegmentInfo struct {
	Index      int    `json:"index"`
	Marker     string `json:"marker"`
	Kind       string `json:"kind"`
	Offset     int    `json:"offset"`
	Length     int    `json:"length,omitempty"`
	ScanLength int    `json:"scan_length,omitempty"`
	Detail     string `json:"detail,omitempty"`
	DecodeErr  string `json:"decode_error,omitempty"`
}

// ImageMetadata represents metadata about a carrier image
type ImageMetadata struct {
	Format        string        `json:"format"`
	TotalBytes    int           `json:"total_bytes"`
	Width         uint32        `json:"width,omitempty"`
	Height        uint32        `json:"height,omitempty"`
	EntryCount    int           `json:"entry_count"`
	CRCMismatches int           `json:"crc_mismatches,omitempty"`
	TrailingBytes int           `json:"trailing_bytes"`
	AutoOffset    *uint64       `json:"auto_offset,omitempty"`
	Chunks        []ChunkInfo   `json:"chunks,omitempty"`
	Segments      []SegmentInfo `json:"segments,omitempty"`
	ParseError    string        `json:"parse_error,omitempty"`
}

// StegoConfig represents configuration for one injection or extraction
type StegoConfig struct {
	Key       string
	Payload   []byte
	Offset    string
	ChunkType string
	Format    string
	// Compress zstd-compresses Payload before encryption.
	Compress bool
}
