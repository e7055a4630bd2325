package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pageprism/application/pom"
	"pageprism/domain/entities"
	"pageprism/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Request controls a single probe run.
type Request struct {
	// Load navigates to the page's url template expanded with Params first.
	Load   bool
	Params pom.Params

	// Timeout bounds each page-level wait. Zero means pom.DefaultTimeout.
	Timeout time.Duration

	// Save stores the report when the prober has a store.
	Save bool
}

type Prober struct {
	driver interfaces.Driver
	store  interfaces.ReportStore
	logger logrus.FieldLogger
	opts   []pom.Option
	now    func() time.Time
}

// NewProber - creates a prober over a live session. store may be nil.
func NewProber(driver interfaces.Driver, store interfaces.ReportStore, logger logrus.FieldLogger, opts ...pom.Option) *Prober {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Prober{
		driver: driver,
		store:  store,
		logger: logger,
		opts:   append([]pom.Option{pom.WithLogger(logger)}, opts...),
		now:    time.Now,
	}
}

// Probe instantiates typ on the session and reports what each declared
// field currently matches. Section fields are probed through their first
// match, frame fields by entering the frame.
func (p *Prober) Probe(ctx context.Context, typ *pom.PageType, req Request) (*entities.ProbeReport, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = pom.DefaultTimeout
	}
	page := typ.New(p.driver, p.opts...)
	report := &entities.ProbeReport{
		Page:      typ.Schema().Name(),
		StartedAt: p.now(),
	}

	if req.Load {
		if err := page.Load(req.Params); err != nil {
			return nil, err
		}
	}

	ready, err := p.settled(page.WaitUntilPageReadyStateIsComplete(ctx, timeout))
	if err != nil {
		return nil, err
	}
	report.ReadyState = ready

	if typ.URLTemplate() != "" || typ.URLMatcher() != "" {
		loaded, err := p.settled(page.WaitUntilPageLoaded(ctx, timeout))
		if err != nil {
			return nil, err
		}
		report.Loaded = loaded
	}

	report.URL, err = page.CurrentURL()
	if err != nil {
		return nil, fmt.Errorf("failed to read current url: %w", err)
	}

	report.Fields = p.scope(ctx, page.Scope, nil)
	report.Duration = p.now().Sub(report.StartedAt)

	p.logger.WithFields(logrus.Fields{
		"page":    report.Page,
		"loaded":  report.Loaded,
		"missing": len(report.Missing()),
	}).Info("Probe finished")

	if req.Save && p.store != nil {
		if err := p.store.SaveReport(report); err != nil {
			return report, fmt.Errorf("failed to save report: %w", err)
		}
	}
	return report, nil
}

// settled turns a wait timeout into a false result. Other failures abort.
func (p *Prober) settled(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, entities.ErrTimeout) {
		return false, nil
	}
	return false, err
}

// scope reports every field of s. path holds the frames entered to reach s,
// outermost first.
func (p *Prober) scope(ctx context.Context, s *pom.Scope, path []*pom.Frame) []entities.FieldReport {
	schema := s.Schema()
	reports := make([]entities.FieldReport, 0, len(schema.Fields()))
	for _, name := range schema.Fields() {
		d, _ := schema.Descriptor(name)
		r := entities.FieldReport{Name: name, Kind: d.Kind, Locator: d.Locator}
		for _, m := range schema.MethodsFor(name) {
			r.Methods = append(r.Methods, m.Name)
		}
		if err := p.field(ctx, s, path, d, &r); err != nil {
			r.Error = err.Error()
		}
		reports = append(reports, r)
	}
	return reports
}

func (p *Prober) field(ctx context.Context, s *pom.Scope, path []*pom.Frame, d pom.Descriptor, r *entities.FieldReport) error {
	switch d.Kind {
	case entities.KindMulti:
		els, err := s.Elements(r.Name).Elements()
		if err != nil {
			return err
		}
		p.count(r, els)

	case entities.KindMultiSection:
		f := s.Sections(r.Name)
		els, err := f.Elements()
		if err != nil {
			return err
		}
		p.count(r, els)
		if len(els) == 0 {
			return nil
		}
		secs, err := f.Sections()
		if err != nil {
			return err
		}
		r.Children = p.scope(ctx, secs[0].Scope, path)

	case entities.KindSingle:
		return p.single(r, s.Element(r.Name))

	case entities.KindSection:
		f := s.Section(r.Name)
		if err := p.single(r, &f.ElementField); err != nil || !r.Present {
			return err
		}
		sec, err := f.Section()
		if err != nil {
			return err
		}
		r.Children = p.scope(ctx, sec.Scope, path)

	case entities.KindFrame:
		f := s.Frame(r.Name)
		if err := p.single(r, &f.ElementField); err != nil || !r.Present {
			return err
		}
		fr, err := f.Frame()
		if err != nil {
			return err
		}
		return p.withinFrame(fr, path, func(inner []*pom.Frame) {
			r.Children = p.scope(ctx, fr.Scope, inner)
		})
	}
	return nil
}

// withinFrame enters fr, runs fn and switches back into the innermost frame
// of path. Leaving a frame lands on the top-level document, so the ancestors
// are entered again from the top.
func (p *Prober) withinFrame(fr *pom.Frame, path []*pom.Frame, fn func(inner []*pom.Frame)) (err error) {
	if err := fr.Enter(); err != nil {
		return err
	}
	defer func() {
		errs := []error{err, fr.Exit()}
		for _, f := range path {
			errs = append(errs, f.Enter())
		}
		err = errors.Join(errs...)
	}()
	fn(append(path[:len(path):len(path)], fr))
	return nil
}

func (p *Prober) single(r *entities.FieldReport, f *pom.ElementField) error {
	present, err := f.Has()
	if err != nil || !present {
		return err
	}
	el, err := f.Element()
	if err != nil {
		return err
	}
	r.Present = true
	r.Count = 1
	r.Visible = displayed(el)
	return nil
}

func (p *Prober) count(r *entities.FieldReport, els []interfaces.Element) {
	r.Count = len(els)
	r.Present = len(els) > 0
	for _, el := range els {
		if displayed(el) {
			r.Visible = true
			break
		}
	}
}

// displayed treats an element that went stale as not displayed.
func displayed(el interfaces.Element) bool {
	ok, err := el.IsDisplayed()
	return err == nil && ok
}
