package model

import (
	"gorm.io/datatypes"
)

type Sample struct {
	BaseModel
	Barcode           string          `gorm:"type:varchar(20);not null;uniqueIndex:uk_sample_barcode" json:"barcode"`
	LtxID             *string         `gorm:"type:varchar(10)" json:"ltx_id"`
	PatientID         string          `gorm:"type:varchar(10);not null;index:idx_sample_patient" json:"patient_id"`
	ParentBarcode     *string         `gorm:"type:varchar(20);index:idx_sample_parent" json:"parent_barcode"`
	Type              string          `gorm:"type:varchar(20);not null" json:"type"`
	InvestigationType *string         `gorm:"type:varchar(50)" json:"investigation_type"`
	Status            *string         `gorm:"type:varchar(20)" json:"status"`
	Site              *string         `gorm:"type:varchar(50)" json:"site"`
	Timepoint         *string         `gorm:"type:varchar(100)" json:"timepoint"`
	Specimen          *string         `gorm:"type:varchar(50)" json:"specimen"`
	SpecNumber        *string         `gorm:"type:varchar(10)" json:"spec_number"`
	Material          *string         `gorm:"type:varchar(20)" json:"material"`
	SampleDate        *datatypes.Date `gorm:"type:date" json:"sample_date"`
	SampleTime        *datatypes.Time `gorm:"type:time" json:"sample_time"`
	Freezer           *string         `gorm:"type:varchar(20)" json:"freezer"`
	Shelf             *string         `gorm:"type:varchar(20)" json:"shelf"`
	Box               *string         `gorm:"type:varchar(20)" json:"box"`
	Position          *string         `gorm:"type:varchar(20)" json:"position"`
	Volume            *float64        `json:"volume"`
	Amount            *float64        `json:"amount"`
	Concentration     *float64        `json:"concentration"`
	Mass              *float64        `json:"mass"`
	Surplus           bool            `gorm:"not null;default:false" json:"surplus"`
	SampleLevel       *string         `gorm:"type:varchar(20)" json:"sample_level"`
	Comments          *string         `gorm:"type:text" json:"comments"`
}

func (*Sample) TableName() string {
	return "sample"
}
