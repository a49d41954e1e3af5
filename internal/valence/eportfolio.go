package valence

import (
	"context"
	"strconv"

	"valence-go/internal/client"
	"valence-go/internal/upload"
)

// ExportOptions selects what an ePortfolio export includes. The reflection
// flags apply to API versions up to 2.0; AssociatedItems to later ones.
type ExportOptions struct {
	FormsItems              bool
	AssociatedReflections   bool
	ReflectionsAssociations bool
	AssociatedItems         bool
}

func ep(opts []client.Option, format string, args ...any) string {
	return api("eP", "2.0", opts, format, args...)
}

// epVersion returns the effective eP version as a number. Unparseable
// versions compare as zero.
func epVersion(opts []client.Option) float64 {
	v := client.Collect(opts).Version
	if v == "" {
		v = "2.0"
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func (s *Service) EPImportStatus(ctx context.Context, taskID int64, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, ep(opts, "/import/%d/status", taskID), opts)
}

// StartEPImport uploads an import package for the given users. withDetails
// selects the detailed import route, available from version 2.2.
func (s *Service) StartEPImport(ctx context.Context, f *upload.File, userIDs []int, withDetails bool, opts ...client.Option) (*client.Content, error) {
	route := ep(opts, "/import/new")
	if withDetails && epVersion(opts) >= 2.2 {
		route = ep(opts, "/import/newwithdetails")
	}
	body, err := upload.EncodeImport(userIDs, f)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, route, body, opts)
}

func (s *Service) StartEPExportAll(ctx context.Context, opts ...client.Option) (*client.Content, error) {
	return s.post(ctx, ep(opts, "/export/new/all"), nil, opts)
}

// StartEPExport exports the given objects.
func (s *Service) StartEPExport(ctx context.Context, objectIDs []int64, eo ExportOptions, opts ...client.Option) (*client.Content, error) {
	kv := []string{"include_forms_items", strconv.FormatBool(eo.FormsItems)}
	if epVersion(opts) <= 2.0 {
		kv = append(kv,
			"includeAssociatedReflections", strconv.FormatBool(eo.AssociatedReflections),
			"includeReflectionsAssociations", strconv.FormatBool(eo.ReflectionsAssociations),
		)
	} else {
		kv = append(kv, "include_associated_items", strconv.FormatBool(eo.AssociatedItems))
	}
	opts = withQuery(opts, kv...)
	if objectIDs == nil {
		objectIDs = []int64{}
	}
	return s.postJSON(ctx, ep(opts, "/export/new"), objectIDs, opts)
}

func (s *Service) EPExportStatus(ctx context.Context, taskID int64, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, ep(opts, "/export/%d/status", taskID), opts)
}

// EPExportPackage downloads a finished export.
func (s *Service) EPExportPackage(ctx context.Context, taskID int64, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, ep(opts, "/export/%d/package", taskID), opts)
}
