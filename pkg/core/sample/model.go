package sample

const CreatedMsg = "Samples added successfully"

const (
	MaxBarcodeCount = 1000
	MaxBarcodeLen   = 20
)

// SampleReq is one element of a create payload. Absent keys stay nil and are
// stored as NULL; any client supplied id is ignored.
type SampleReq struct {
	Barcode           *string  `json:"barcode,omitempty"`
	LtxID             *string  `json:"ltxId,omitempty"`
	PatientID         *string  `json:"patientId,omitempty"`
	ParentBarcode     *string  `json:"parentBarcode,omitempty"`
	Type              *string  `json:"type,omitempty"`
	InvestigationType *string  `json:"investigationType,omitempty"`
	Status            *string  `json:"status,omitempty"`
	Site              *string  `json:"site,omitempty"`
	Timepoint         *string  `json:"timepoint,omitempty"`
	Specimen          *string  `json:"specimen,omitempty"`
	SpecNumber        *string  `json:"specNumber,omitempty"`
	Material          *string  `json:"material,omitempty"`
	SampleDate        *string  `json:"sampleDate,omitempty"`
	SampleTime        *string  `json:"sampleTime,omitempty"`
	Freezer           *string  `json:"freezer,omitempty"`
	Shelf             *string  `json:"shelf,omitempty"`
	Box               *string  `json:"box,omitempty"`
	Position          *string  `json:"position,omitempty"`
	Volume            *float64 `json:"volume,omitempty"`
	Amount            *float64 `json:"amount,omitempty"`
	Concentration     *float64 `json:"concentration,omitempty"`
	Mass              *float64 `json:"mass,omitempty"`
	Surplus           *bool    `json:"surplus,omitempty"`
	SampleLevel       *string  `json:"sampleLevel,omitempty"`
	Comments          *string  `json:"comments,omitempty"`
}

// SampleResp is the wire form of a stored sample. Every key is always
// present; unset values are null.
type SampleResp struct {
	ID                string   `json:"id"`
	Barcode           string   `json:"barcode"`
	LtxID             *string  `json:"ltxId"`
	PatientID         string   `json:"patientId"`
	ParentBarcode     *string  `json:"parentBarcode"`
	Type              string   `json:"type"`
	InvestigationType *string  `json:"investigationType"`
	Status            *string  `json:"status"`
	Site              *string  `json:"site"`
	Timepoint         *string  `json:"timepoint"`
	Specimen          *string  `json:"specimen"`
	SpecNumber        *string  `json:"specNumber"`
	Material          *string  `json:"material"`
	SampleDate        *string  `json:"sampleDate"`
	SampleTime        *string  `json:"sampleTime"`
	Freezer           *string  `json:"freezer"`
	Shelf             *string  `json:"shelf"`
	Box               *string  `json:"box"`
	Position          *string  `json:"position"`
	Volume            *float64 `json:"volume"`
	Amount            *float64 `json:"amount"`
	Concentration     *float64 `json:"concentration"`
	Mass              *float64 `json:"mass"`
	Surplus           bool     `json:"surplus"`
	SampleLevel       *string  `json:"sampleLevel"`
	Comments          *string  `json:"comments"`
}

// DeriveReq creates children of existing samples. Each entry of
// ParentBarcodes adds one child with defaults only; Samples carry explicit
// children that must name their parentBarcode.
type DeriveReq struct {
	ParentBarcodes []string     `json:"parentBarcodes,omitempty"`
	Samples        []*SampleReq `json:"samples"`
}

type CreateResp struct {
	Message  string   `json:"message"`
	Barcodes []string `json:"barcodes"`
}

type BarcodesResp struct {
	Barcodes []string `json:"barcodes"`
}
