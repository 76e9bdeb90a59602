package remote

import (
	"github.com/llehouerou/ipv/internal/geometry"
	"github.com/llehouerou/ipv/internal/params"
)

// Service endpoints, relative to the base URL.
const (
	PathConvert     = "/bw-converter/convert"
	PathConvertSave = "/bw-converter/save"
	PathCutout      = "/grabcut/process"
	PathCutoutSave  = "/grabcut/save"
)

// ConvertRequest asks for a grayscale conversion.
type ConvertRequest struct {
	Image  string        `json:"image"`
	Method params.Method `json:"method"`
}

// ConvertResponse carries the converted image.
type ConvertResponse struct {
	Success     bool   `json:"success"`
	ResultImage string `json:"result_image,omitempty"`
	Method      string `json:"method,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ConvertSaveRequest persists a converted image on the service.
type ConvertSaveRequest struct {
	ResultImage string        `json:"result_image"`
	Method      params.Method `json:"method"`
}

// CutoutRequest asks for a foreground cutout inside Rect.
// Rect is in source image pixels.
type CutoutRequest struct {
	Image      string            `json:"image"`
	Rect       geometry.Rect     `json:"rect"`
	ResultType params.ResultType `json:"result_type"`
}

// CutoutResponse carries the cutout and its mask.
type CutoutResponse struct {
	Success     bool   `json:"success"`
	ResultImage string `json:"result_image,omitempty"`
	MaskImage   string `json:"mask_image,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CutoutSaveRequest persists a cutout and its mask on the service.
type CutoutSaveRequest struct {
	ResultImage string            `json:"result_image"`
	MaskImage   string            `json:"mask_image"`
	ResultType  params.ResultType `json:"result_type"`
}

// SaveResponse reports where the service stored the files.
type SaveResponse struct {
	Success    bool   `json:"success"`
	ResultPath string `json:"result_path,omitempty"`
	MaskPath   string `json:"mask_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// envelope is the success/error pair every response carries.
type envelope interface {
	ok() bool
	message() string
}

func (r *ConvertResponse) ok() bool        { return r.Success }
func (r *ConvertResponse) message() string { return r.Error }
func (r *CutoutResponse) ok() bool         { return r.Success }
func (r *CutoutResponse) message() string  { return r.Error }
func (r *SaveResponse) ok() bool           { return r.Success }
func (r *SaveResponse) message() string    { return r.Error }

// fallbackMessage is shown when a failed response has no error text.
func fallbackMessage(path string) string {
	switch path {
	case PathConvert:
		return "Conversion failed"
	case PathCutout:
		return "Processing failed"
	default:
		return "Saving failed"
	}
}
