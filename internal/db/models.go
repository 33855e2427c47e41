package db

// Node represents a row in the nodes table
type Node struct {
	ID        string  `json:"id"`
	NodeType  string  `json:"type"`
	Title     string  `json:"title"`
	ParentID  *string `json:"parent_id"`
	Depth     int     `json:"depth"`
	CreatedAt int64   `json:"created_at"` // Unix millis
	UpdatedAt int64   `json:"updated_at"` // Unix millis
}

// Edge represents a row in the edges table
type Edge struct {
	ID        string   `json:"id"`
	SourceID  string   `json:"source_id"`
	TargetID  string   `json:"target_id"`
	EdgeType  string   `json:"edge_type"` // lowercase: "related", "calls", etc.
	Weight    *float64 `json:"weight"`
	CreatedAt int64    `json:"created_at"` // Unix millis
}
