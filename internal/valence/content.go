package valence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"valence-go/internal/client"
	"valence-go/internal/upload"
)

// Content object types.
const (
	ContentTypeModule = 0
	ContentTypeTopic  = 1
)

// ContentModuleObject is a module of a course's table of contents.
// Structure holds its children undecoded.
type ContentModuleObject struct {
	Id              int64
	Title           string
	ShortTitle      string
	Type            int
	ModuleStartDate *string
	ModuleEndDate   *string
	IsHidden        bool
	IsLocked        bool
	Structure       []json.RawMessage `json:",omitempty"`
}

// ContentTopicObject is a topic. TopicType distinguishes files from links.
type ContentTopicObject struct {
	Id         int64
	Title      string
	ShortTitle string
	Type       int
	TopicType  int
	Url        string
	StartDate  *string
	EndDate    *string
	IsHidden   bool
	IsLocked   bool
}

// ContentObject is one entry of a module structure. Exactly one of Module
// and Topic is set for recognised types; otherwise only Raw is.
type ContentObject struct {
	Module *ContentModuleObject
	Topic  *ContentTopicObject
	Raw    json.RawMessage
}

// DecodeContentObject dispatches on the numeric Type field.
func DecodeContentObject(raw []byte) (ContentObject, error) {
	out := ContentObject{Raw: append(json.RawMessage(nil), raw...)}
	t := gjson.GetBytes(raw, "Type")
	if t.Type != gjson.Number {
		return out, nil
	}
	var err error
	switch t.Int() {
	case ContentTypeModule:
		out.Module = &ContentModuleObject{}
		err = json.Unmarshal(raw, out.Module)
	case ContentTypeTopic:
		out.Topic = &ContentTopicObject{}
		err = json.Unmarshal(raw, out.Topic)
	}
	if err != nil {
		return ContentObject{}, fmt.Errorf("decode content object: %w", err)
	}
	return out, nil
}

// ContentModuleData is the body of a module create or update.
type ContentModuleData struct {
	Title           string
	ShortTitle      string
	Type            int
	ModuleStartDate *string
	ModuleEndDate   *string
	IsHidden        bool
	IsLocked        bool
}

// NewContentModuleData returns module data with Type set.
func NewContentModuleData(title, shortTitle string) ContentModuleData {
	return ContentModuleData{Title: title, ShortTitle: shortTitle, Type: ContentTypeModule}
}

// ContentTopicData is the body of a topic create or update.
type ContentTopicData struct {
	Title      string
	ShortTitle string
	Type       int
	TopicType  int
	Url        string
	StartDate  *string
	EndDate    *string
	IsHidden   bool
	IsLocked   bool
}

// NewContentTopicLink returns link topic data with Type set.
func NewContentTopicLink(title, shortTitle, url string) ContentTopicData {
	return ContentTopicData{Title: title, ShortTitle: shortTitle, Type: ContentTypeTopic, TopicType: 3, Url: url}
}

func (s *Service) DeleteContentModule(ctx context.Context, orgUnitID, moduleID int64, opts ...client.Option) error {
	return discard(s.del(ctx, le("1.0", opts, "/%d/content/modules/%d", orgUnitID, moduleID), opts))
}

func (s *Service) DeleteContentTopic(ctx context.Context, orgUnitID, topicID int64, opts ...client.Option) error {
	return discard(s.del(ctx, le("1.0", opts, "/%d/content/topics/%d", orgUnitID, topicID), opts))
}

func (s *Service) ContentModule(ctx context.Context, orgUnitID, moduleID int64, opts ...client.Option) (*ContentModuleObject, error) {
	return decodePtr[ContentModuleObject](s.get(ctx, le("1.0", opts, "/%d/content/modules/%d", orgUnitID, moduleID), opts))
}

func (s *Service) ContentTopic(ctx context.Context, orgUnitID, topicID int64, opts ...client.Option) (*ContentTopicObject, error) {
	return decodePtr[ContentTopicObject](s.get(ctx, le("1.0", opts, "/%d/content/topics/%d", orgUnitID, topicID), opts))
}

// ContentModuleStructure lists the modules and topics directly inside a module.
func (s *Service) ContentModuleStructure(ctx context.Context, orgUnitID, moduleID int64, opts ...client.Option) ([]ContentObject, error) {
	raws, err := decode[[]json.RawMessage](s.get(ctx, le("1.0", opts, "/%d/content/modules/%d/structure/", orgUnitID, moduleID), opts))
	if err != nil {
		return nil, err
	}
	out := make([]ContentObject, 0, len(raws))
	for _, raw := range raws {
		obj, err := DecodeContentObject(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func (s *Service) ContentRootModules(ctx context.Context, orgUnitID int64, opts ...client.Option) ([]ContentModuleObject, error) {
	return decode[[]ContentModuleObject](s.get(ctx, le("1.0", opts, "/%d/content/root/", orgUnitID), opts))
}

func (s *Service) CreateContentRootModule(ctx context.Context, orgUnitID int64, data ContentModuleData, opts ...client.Option) (*client.Content, error) {
	return s.postJSON(ctx, le("1.0", opts, "/%d/content/root/", orgUnitID), data, opts)
}

// CreateContentModule adds a child module inside moduleID.
func (s *Service) CreateContentModule(ctx context.Context, orgUnitID, moduleID int64, data ContentModuleData, opts ...client.Option) (*client.Content, error) {
	return s.postJSON(ctx, le("1.0", opts, "/%d/content/modules/%d/structure/", orgUnitID, moduleID), data, opts)
}

func (s *Service) CreateContentTopicLink(ctx context.Context, orgUnitID, moduleID int64, data ContentTopicData, opts ...client.Option) (*client.Content, error) {
	return s.postJSON(ctx, le("1.0", opts, "/%d/content/modules/%d/structure/", orgUnitID, moduleID), data, opts)
}

// CreateContentTopicFile uploads f as a file topic; f's descriptor should be
// a ContentTopicData.
func (s *Service) CreateContentTopicFile(ctx context.Context, orgUnitID, moduleID int64, f *upload.File, opts ...client.Option) (*client.Content, error) {
	return s.simpleUpload(ctx, le("1.0", opts, "/%d/content/modules/%d/structure/", orgUnitID, moduleID), f, opts)
}

func (s *Service) UpdateContentModule(ctx context.Context, orgUnitID, moduleID int64, data ContentModuleData, opts ...client.Option) (*client.Content, error) {
	return s.putJSON(ctx, le("1.0", opts, "/%d/content/modules/%d", orgUnitID, moduleID), data, opts)
}

func (s *Service) UpdateContentTopic(ctx context.Context, orgUnitID, topicID int64, data ContentTopicData, opts ...client.Option) (*client.Content, error) {
	return s.putJSON(ctx, le("1.0", opts, "/%d/content/topics/%d", orgUnitID, topicID), data, opts)
}
