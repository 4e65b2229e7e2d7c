package models

type GalleryImage struct {
	Name     string `json:"name"`
	Ext      string `json:"ext"`
	Campaign string `json:"campaign"`
	Course   string `json:"course"`
	Year     string `json:"year"`
}
