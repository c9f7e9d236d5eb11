package models

import "time"

type UploadResp struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	DocID   string           `json:"doc_id"`
	Status  ProcessingStatus `json:"status"`
}

type DocumentListResp struct {
	Documents []*DocumentMeta `json:"documents"`
	Total     int             `json:"total"`
}

type StatusResp struct {
	DocID      string           `json:"doc_id"`
	Filename   string           `json:"filename"`
	Status     ProcessingStatus `json:"status"`
	PageCount  int32            `json:"page_count"`
	ChunkCount int32            `json:"chunk_count"`
	Error      string           `json:"error,omitempty"`
}

type QueryReq struct {
	Question string `json:"question"`
	UserID   string `json:"user_id"`
}

type QuerySource struct {
	Filename string `json:"filename"`
	Page     int    `json:"page"`
	Snippet  string `json:"snippet"`
}

type QueryResp struct {
	Answer       string        `json:"answer"`
	Sources      []QuerySource `json:"sources"`
	ResponseTime float64       `json:"response_time"`
}

type SignupReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResp struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}
