package entity

import "time"

// Vessel fleet vessel
type Vessel struct {
	ID               string    `json:"id" gorm:"primaryKey;size:32"`
	Name             string    `json:"name" gorm:"size:128;not null"`
	IMONumber        string    `json:"imo_number" gorm:"column:imo_number;size:16;index"`
	VesselType       string    `json:"vessel_type" gorm:"size:64"`
	Flag             string    `json:"flag" gorm:"size:64"`
	RegistrationType string    `json:"registration_type" gorm:"size:64"`
	GrossTonnage     float64   `json:"gross_tonnage"`
	Length           float64   `json:"length"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Vessel) TableName() string {
	return "vessels"
}
