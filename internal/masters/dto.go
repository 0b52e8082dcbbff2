package masters

type CreateRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type UpdateRequest struct {
	Name       string `json:"name" binding:"required"`
	IsDisabled bool   `json:"is_disabled"`
}

// Entry: 作業員・現場・機械のマスタ1件（ID → 表示名）
type Entry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsDisabled bool   `json:"is_disabled"`
}
