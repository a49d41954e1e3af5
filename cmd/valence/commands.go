package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"valence-go/internal/config"
	"valence-go/internal/render"
	"valence-go/internal/upload"
	"valence-go/internal/valence"
)

type VersionsCmd struct {
	Product string `arg:"" optional:"" help:"Product code, e.g. lp or le. Omit to list all products."`
}

func (c *VersionsCmd) Run(globals *config.CLI) error {
	return runOnce(globals, func(ctx context.Context, svc *valence.Service, out *render.Renderer) error {
		if c.Product == "" {
			all, err := svc.AllVersions(ctx)
			if err != nil {
				return err
			}
			return out.Render(all)
		}
		pv, err := svc.ProductVersions(ctx, c.Product)
		if err != nil {
			return err
		}
		return out.Render(pv)
	})
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(globals *config.CLI) error {
	return runOnce(globals, func(ctx context.Context, svc *valence.Service, out *render.Renderer) error {
		me, err := svc.WhoAmI(ctx)
		if err != nil {
			return err
		}
		return out.Render(me)
	})
}

type EnrollmentsCmd struct {
	Type     int64  `help:"Only org units of this type id."`
	Bookmark string `help:"Resume after this bookmark from a previous page."`
}

func (c *EnrollmentsCmd) Run(globals *config.CLI) error {
	return runOnce(globals, func(ctx context.Context, svc *valence.Service, out *render.Renderer) error {
		page, err := svc.MyEnrollments(ctx, c.Type, c.Bookmark)
		if err != nil {
			return err
		}
		return out.Render(page)
	})
}

type GradesCmd struct {
	OrgUnit int64 `arg:"" help:"Org unit id."`
}

func (c *GradesCmd) Run(globals *config.CLI) error {
	return runOnce(globals, func(ctx context.Context, svc *valence.Service, out *render.Renderer) error {
		objs, err := svc.GradeObjects(ctx, c.OrgUnit)
		if err != nil {
			return err
		}
		return out.Render(objs)
	})
}

type LockerCmd struct {
	Ls    LockerLsCmd    `cmd:"" help:"List a locker folder."`
	Get   LockerGetCmd   `cmd:"" help:"Print a locker file to stdout."`
	Mkdir LockerMkdirCmd `cmd:"" help:"Create a locker folder."`
	Put   LockerPutCmd   `cmd:"" help:"Upload a file into a locker folder."`
}

type LockerLsCmd struct {
	Path string `arg:"" optional:"" default:"/" help:"Folder path, rooted at /."`
}

func (c *LockerLsCmd) Run(globals *config.CLI) error {
	path := c.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return runOnce(globals, func(ctx context.Context, svc *valence.Service, out *render.Renderer) error {
		lc, err := svc.MyLocker().Get(ctx, path)
		if err != nil {
			return err
		}
		return out.Render(lc.Items)
	})
}

type LockerGetCmd struct {
	Path string `arg:"" help:"File path, rooted at /."`
}

func (c *LockerGetCmd) Run(globals *config.CLI) error {
	if strings.HasSuffix(c.Path, "/") {
		return fmt.Errorf("%q is a folder; use locker ls", c.Path)
	}
	return runOnce(globals, func(ctx context.Context, svc *valence.Service, out *render.Renderer) error {
		lc, err := svc.MyLocker().Get(ctx, c.Path)
		if err != nil {
			return err
		}
		return out.Render(lc.File)
	})
}

type LockerMkdirCmd struct {
	Name string `arg:"" help:"New folder name."`
	Path string `default:"/" help:"Parent folder, rooted at /."`
}

func (c *LockerMkdirCmd) Run(globals *config.CLI) error {
	return runOnce(globals, func(ctx context.Context, svc *valence.Service, out *render.Renderer) error {
		res, err := svc.MyLocker().CreateFolder(ctx, c.Path, c.Name)
		if err != nil {
			return err
		}
		return out.Render(res)
	})
}

type LockerPutCmd struct {
	File        string `arg:"" type:"existingfile" help:"Local file to upload."`
	Path        string `default:"/" help:"Destination folder, rooted at /."`
	Description string `help:"File description."`
	Public      bool   `help:"Make the file visible to others."`
}

func (c *LockerPutCmd) Run(globals *config.CLI) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	ct := mime.TypeByExtension(filepath.Ext(c.File))
	if ct == "" {
		ct = "application/octet-stream"
	}
	uf := &upload.File{
		Descriptor:  valence.LockerFileDescriptor{Description: c.Description, IsPublic: c.Public},
		Stream:      f,
		Name:        filepath.Base(c.File),
		ContentType: ct,
	}

	return runOnce(globals, func(ctx context.Context, svc *valence.Service, out *render.Renderer) error {
		res, err := svc.MyLocker().CreateFile(ctx, c.Path, uf)
		if err != nil {
			return err
		}
		return out.Render(res)
	})
}
