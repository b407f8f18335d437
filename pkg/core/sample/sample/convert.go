package sample

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"

	"github.com/scienceol/tracerx/pkg/common/code"
	"github.com/scienceol/tracerx/pkg/core/catalog"
	"github.com/scienceol/tracerx/pkg/core/sample"
	"github.com/scienceol/tracerx/pkg/repo/model"
)

var timeLayouts = []string{"15:04:05", "15:04"}

func parseDate(raw *string) (*datatypes.Date, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

func parseTime(raw *string) (*datatypes.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, strings.TrimSpace(*raw))
		if err != nil {
			lastErr = err
			continue
		}
		v := datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0)
		return &v, nil
	}
	return nil, lastErr
}

func required(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	return s, s != ""
}

// toModel validates one request and maps it onto a row. Rows without a
// barcode are returned with an empty one for the caller to mint.
func toModel(idx int, req *sample.SampleReq) (*model.Sample, error) {
	if req == nil {
		return nil, code.ParamErr.WithMsgf("samples[%d]: expected an object", idx)
	}
	patientID, ok := required(req.PatientID)
	if !ok {
		return nil, code.MissingField.WithMsgf("samples[%d]: patientId is required", idx)
	}
	typ, ok := required(req.Type)
	if !ok {
		return nil, code.MissingField.WithMsgf("samples[%d]: type is required", idx)
	}
	bc := ""
	if req.Barcode != nil {
		bc = strings.TrimSpace(*req.Barcode)
	}
	if len(bc) > sample.MaxBarcodeLen {
		return nil, code.ParamErr.WithMsgf("samples[%d]: barcode longer than %d characters", idx, sample.MaxBarcodeLen)
	}
	if err := checkWidths(idx, req, patientID, typ); err != nil {
		return nil, err
	}
	date, err := parseDate(req.SampleDate)
	if err != nil {
		return nil, code.InvalidDate.WithMsgf("samples[%d]: sampleDate %q is not YYYY-MM-DD", idx, *req.SampleDate)
	}
	tm, err := parseTime(req.SampleTime)
	if err != nil {
		return nil, code.InvalidTime.WithMsgf("samples[%d]: sampleTime %q is not HH:MM or HH:MM:SS", idx, *req.SampleTime)
	}

	row := &model.Sample{
		Barcode:           bc,
		LtxID:             req.LtxID,
		PatientID:         patientID,
		ParentBarcode:     req.ParentBarcode,
		Type:              typ,
		InvestigationType: req.InvestigationType,
		Status:            req.Status,
		Site:              req.Site,
		Timepoint:         req.Timepoint,
		Specimen:          req.Specimen,
		SpecNumber:        req.SpecNumber,
		Material:          req.Material,
		SampleDate:        date,
		SampleTime:        tm,
		Freezer:           req.Freezer,
		Shelf:             req.Shelf,
		Box:               req.Box,
		Position:          req.Position,
		Volume:            req.Volume,
		Amount:            req.Amount,
		Concentration:     req.Concentration,
		Mass:              req.Mass,
		SampleLevel:       req.SampleLevel,
		Comments:          req.Comments,
	}
	if req.Surplus != nil {
		row.Surplus = *req.Surplus
	}
	return row, nil
}

// checkWidths keeps values inside their column widths so postgres never
// rejects a row the service already accepted.
func checkWidths(idx int, req *sample.SampleReq, patientID, typ string) error {
	fields := []struct {
		key   string
		value *string
		max   int
	}{
		{"ltxId", req.LtxID, 10},
		{"patientId", &patientID, 10},
		{"parentBarcode", req.ParentBarcode, sample.MaxBarcodeLen},
		{"type", &typ, 20},
		{"investigationType", req.InvestigationType, 50},
		{"status", req.Status, 20},
		{"site", req.Site, 50},
		{"timepoint", req.Timepoint, 100},
		{"specimen", req.Specimen, 50},
		{"specNumber", req.SpecNumber, 10},
		{"material", req.Material, 20},
		{"freezer", req.Freezer, 20},
		{"shelf", req.Shelf, 20},
		{"box", req.Box, 20},
		{"position", req.Position, 20},
		{"sampleLevel", req.SampleLevel, 20},
	}
	for _, f := range fields {
		if f.value != nil && utf8.RuneCountInString(*f.value) > f.max {
			return code.ParamErr.WithMsgf("samples[%d]: %s longer than %d characters", idx, f.key, f.max)
		}
	}
	return nil
}

// checkCatalog rejects catalog-typed values that are set, non-empty and
// unknown.
func checkCatalog(c catalog.Catalog, idx int, row *model.Sample) error {
	fields := []struct {
		key   string
		kind  string
		value *string
	}{
		{"type", catalog.SampleTypes, &row.Type},
		{"investigationType", catalog.InvestigationTypes, row.InvestigationType},
		{"site", catalog.Sites, row.Site},
		{"timepoint", catalog.Timepoints, row.Timepoint},
		{"specimen", catalog.Specimens, row.Specimen},
		{"specNumber", catalog.SpecNumbers, row.SpecNumber},
		{"material", catalog.Materials, row.Material},
		{"sampleLevel", catalog.SampleLevels, row.SampleLevel},
	}
	for _, f := range fields {
		if f.value == nil || *f.value == "" {
			continue
		}
		if !c.Contains(f.kind, *f.value) {
			return code.InvalidCatalogValue.WithMsgf("samples[%d]: %s %q is not in catalog %s", idx, f.key, *f.value, f.kind)
		}
	}
	return nil
}

func toResp(m *model.Sample) *sample.SampleResp {
	resp := &sample.SampleResp{
		ID:                m.ID,
		Barcode:           m.Barcode,
		LtxID:             m.LtxID,
		PatientID:         m.PatientID,
		ParentBarcode:     m.ParentBarcode,
		Type:              m.Type,
		InvestigationType: m.InvestigationType,
		Status:            m.Status,
		Site:              m.Site,
		Timepoint:         m.Timepoint,
		Specimen:          m.Specimen,
		SpecNumber:        m.SpecNumber,
		Material:          m.Material,
		Freezer:           m.Freezer,
		Shelf:             m.Shelf,
		Box:               m.Box,
		Position:          m.Position,
		Volume:            m.Volume,
		Amount:            m.Amount,
		Concentration:     m.Concentration,
		Mass:              m.Mass,
		Surplus:           m.Surplus,
		SampleLevel:       m.SampleLevel,
		Comments:          m.Comments,
	}
	if m.SampleDate != nil {
		s := time.Time(*m.SampleDate).Format(time.DateOnly)
		resp.SampleDate = &s
	}
	if m.SampleTime != nil {
		s := m.SampleTime.String()
		resp.SampleTime = &s
	}
	return resp
}

// deriveChild fills the fields a child takes from its parent. Patient, site
// and timepoint always follow the parent; the rest only when omitted.
func deriveChild(req *sample.SampleReq, parent *model.Sample) *sample.SampleReq {
	child := *req
	child.PatientID = &parent.PatientID
	child.Site = parent.Site
	child.Timepoint = parent.Timepoint
	if child.Type == nil {
		child.Type = &parent.Type
	}
	if child.InvestigationType == nil {
		child.InvestigationType = parent.InvestigationType
	}
	if child.Specimen == nil {
		child.Specimen = parent.Specimen
	}
	if child.SpecNumber == nil {
		child.SpecNumber = parent.SpecNumber
	}
	if child.Material == nil {
		child.Material = parent.Material
	}
	if child.SampleLevel == nil {
		level := catalog.LevelDerivative
		if parent.SampleLevel != nil && *parent.SampleLevel != "" && *parent.SampleLevel != catalog.LevelOriginal {
			level = catalog.LevelAliquot
		}
		child.SampleLevel = &level
	}
	if child.Comments == nil {
		comment := fmt.Sprintf("Derived from %s", parent.Barcode)
		child.Comments = &comment
	}
	return &child
}
