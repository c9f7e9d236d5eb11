package models

import "time"

type ChatNode struct {
	ID        string `gorm:"primaryKey"`
	ParentID  string
	FileID    string
	Question  string
	Answer    string
	CreatedAt time.Time
}

type ChatTreeNode struct {
	ID       string          `json:"id"`
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Children []*ChatTreeNode `json:"children"`
}

type AskReq struct {
	Question string `json:"question"`
	ParentID string `json:"parent_id"`
}

type AskResp struct {
	ID       string        `json:"id"`
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Sources  []QuerySource `json:"sources,omitempty"`
}
