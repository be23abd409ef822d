package models

type SignupReq struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6,max=64"`
}

type SigninReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResp struct {
	Token string `json:"token"`
}

type ContentReq struct {
	Link  string `json:"link" validate:"required,url"`
	Type  string `json:"type" validate:"required"`
	Title string `json:"title" validate:"required"`
}

type ContentDeleteReq struct {
	ContentID string `json:"contentId" validate:"required"`
}

type ContentResp struct {
	ID    string   `json:"id"`
	Link  string   `json:"link"`
	Type  string   `json:"type"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

type ContentListResp struct {
	Content []ContentResp `json:"content"`
}

type ShareReq struct {
	Share *bool `json:"share" validate:"required"`
}

type ShareResp struct {
	Hash string `json:"hash"`
}

type BrainResp struct {
	Username string        `json:"username"`
	Content  []ContentResp `json:"content"`
}

type MessageResp struct {
	Message string `json:"message"`
}

type ValidationErrResp struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type HealthResp struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
