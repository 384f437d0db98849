package variants

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/models"
)

// DefaultSKUPrefix is used when a request carries no prefix.
const DefaultSKUPrefix = "SKU"

// DefaultMaxCombinations bounds a single generation run.
const DefaultMaxCombinations = 10000

// Store is what the generator needs from the catalog: a consistent read of
// the option catalog and per-combination transactions for writes.
type Store interface {
	GetProduct(ctx context.Context, ref string) (*models.Product, error)
	ListOptions(ctx context.Context, productID string) ([]models.ProductOption, error)
	ListOptionValues(ctx context.Context, optionID string, activeOnly bool) ([]models.ProductOptionValue, error)
	WithinTransaction(ctx context.Context, fn func(w models.VariantWriter) error) error
}

// Recorder observes finished generation runs.
type Recorder interface {
	ObserveGeneration(res Result, err error, elapsed time.Duration)
}

type Request struct {
	ProductID     string
	OptionCodes   []string
	SKUPrefix     string
	PriceOverride *int64
}

// Result summarises one run. Combinations == Created + Existing on success.
type Result struct {
	Combinations int `json:"combinations"`
	Created      int `json:"created"`
	Existing     int `json:"existing"`
}

// ValidationError reports input the caller can correct. Codes lists the
// option codes at fault, if any.
type ValidationError struct {
	Message string
	Codes   []string
}

func (e *ValidationError) Error() string {
	if len(e.Codes) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Codes, ", "))
}

type Option func(*Generator)

func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithMaxCombinations caps the size of the cartesian expansion. Zero or a
// negative value disables the cap.
func WithMaxCombinations(n int) Option {
	return func(g *Generator) {
		g.maxCombinations = n
	}
}

// Generator expands a product's options into variants.
type Generator struct {
	store           Store
	logger          *zap.Logger
	recorder        Recorder
	maxCombinations int
}

func NewGenerator(store Store, opts ...Option) *Generator {
	g := &Generator{
		store:           store,
		logger:          zap.NewNop(),
		recorder:        nopRecorder{},
		maxCombinations: DefaultMaxCombinations,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// axis is one participating option with its sellable values.
type axis struct {
	option models.ProductOption
	values []models.ProductOptionValue
}

// choice is the value picked for one option in a combination.
type choice struct {
	optionID string
	valueID  string
}

// Generate creates one variant per combination of the active values of the
// requested options. Combinations that already have a variant are left as
// they are apart from repairing their option links, so repeated runs are
// safe. Each combination is written in its own transaction; a failure stops
// the run but keeps the combinations already written.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	res, err := g.generate(ctx, req)
	g.recorder.ObserveGeneration(res, err, time.Since(start))
	return res, err
}

func (g *Generator) generate(ctx context.Context, req Request) (Result, error) {
	var res Result

	codes, err := normalizeCodes(req.OptionCodes)
	if err != nil {
		return res, err
	}
	if req.PriceOverride != nil && *req.PriceOverride < 0 {
		return res, &ValidationError{Message: "priceOverride must not be negative"}
	}

	product, err := g.store.GetProduct(ctx, req.ProductID)
	if err != nil {
		return res, err
	}

	axes, err := g.loadAxes(ctx, product.ID, codes)
	if err != nil {
		return res, err
	}

	total := 1
	for _, a := range axes {
		total *= len(a.values)
		if g.maxCombinations > 0 && total > g.maxCombinations {
			return res, &ValidationError{
				Message: fmt.Sprintf("option codes expand to more than %d combinations", g.maxCombinations),
				Codes:   codes,
			}
		}
	}

	prefix := normalizePrefix(req.SKUPrefix)
	price := product.Price
	if req.PriceOverride != nil {
		price = *req.PriceOverride
	}

	err = forEachCombination(axes, func(combo []choice) error {
		created, err := g.persist(ctx, product.ID, prefix, price, combo)
		if err != nil {
			return err
		}
		res.Combinations++
		if created {
			res.Created++
		} else {
			res.Existing++
		}
		return nil
	})
	if err != nil {
		g.logger.Error("variant generation stopped",
			zap.String("product_id", product.ID),
			zap.Strings("option_codes", codes),
			zap.Int("persisted", res.Combinations),
			zap.Error(err),
		)
		return res, err
	}

	g.logger.Info("variants generated",
		zap.String("product_id", product.ID),
		zap.Strings("option_codes", codes),
		zap.Int("combinations", res.Combinations),
		zap.Int("created", res.Created),
		zap.Int("existing", res.Existing),
	)
	return res, nil
}

// loadAxes resolves every code to an option of the product and its active
// values, in the order the codes were given. All problems are reported in
// one ValidationError.
func (g *Generator) loadAxes(ctx context.Context, productID string, codes []string) ([]axis, error) {
	options, err := g.store.ListOptions(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listing options: %w", err)
	}
	byCode := make(map[string]models.ProductOption, len(options))
	for _, o := range options {
		byCode[o.Code] = o
	}

	var missing, empty []string
	axes := make([]axis, 0, len(codes))
	for _, code := range codes {
		option, ok := byCode[code]
		if !ok {
			missing = append(missing, code)
			continue
		}
		values, err := g.store.ListOptionValues(ctx, option.ID, true)
		if err != nil {
			return nil, fmt.Errorf("listing values of option %q: %w", code, err)
		}
		if len(values) == 0 {
			empty = append(empty, code)
			continue
		}
		axes = append(axes, axis{option: option, values: values})
	}

	switch {
	case len(missing) > 0 && len(empty) > 0:
		return nil, &ValidationError{
			Message: "unknown option codes or options without active values",
			Codes:   append(missing, empty...),
		}
	case len(missing) > 0:
		return nil, &ValidationError{Message: "unknown option codes", Codes: missing}
	case len(empty) > 0:
		return nil, &ValidationError{Message: "options without active values", Codes: empty}
	}
	return axes, nil
}

// persist writes one combination: the variant if it is new, then one link
// per option. Everything happens in one transaction.
func (g *Generator) persist(ctx context.Context, productID, prefix string, price int64, combo []choice) (bool, error) {
	ids := make([]string, len(combo))
	for i, c := range combo {
		ids[i] = c.valueID
	}
	key := CombinationKey(ids)
	sku := SKU(prefix, key)

	var created bool
	err := g.store.WithinTransaction(ctx, func(w models.VariantWriter) error {
		created = false

		variant, err := w.FindVariantByKey(ctx, key)
		switch {
		case errors.Is(err, models.ErrVariantNotFound):
			variant = &models.ProductVariant{
				ProductID:      productID,
				SKU:            sku,
				Price:          price,
				CombinationKey: key,
				IsActive:       true,
			}
			err = w.CreateVariant(ctx, variant)
			if errors.Is(err, models.ErrVariantConflict) {
				g.logger.Debug("variant inserted concurrently", zap.String("combination_key", key))
				variant, err = w.FindVariantByKey(ctx, key)
				if err != nil {
					return fmt.Errorf("reloading variant %s: %w", sku, err)
				}
			} else if err != nil {
				return fmt.Errorf("creating variant %s: %w", sku, err)
			} else {
				created = true
			}
		case err != nil:
			return fmt.Errorf("looking up variant %s: %w", sku, err)
		}

		for _, c := range combo {
			link := &models.ProductVariantOption{
				VariantID: variant.ID,
				OptionID:  c.optionID,
				ValueID:   c.valueID,
			}
			if err := w.UpsertVariantOption(ctx, link); err != nil {
				return fmt.Errorf("linking variant %s to option %s: %w", variant.SKU, c.optionID, err)
			}
		}
		return nil
	})
	return created, err
}

// forEachCombination walks the cartesian product of the axes, first axis
// slowest, calling fn with a reused slice.
func forEachCombination(axes []axis, fn func([]choice) error) error {
	if len(axes) == 0 {
		return nil
	}
	idx := make([]int, len(axes))
	combo := make([]choice, len(axes))
	for {
		for i, a := range axes {
			combo[i] = choice{optionID: a.option.ID, valueID: a.values[idx[i]].ID}
		}
		if err := fn(combo); err != nil {
			return err
		}

		i := len(axes) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i].values) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return nil
		}
	}
}

// CombinationKey is the SHA-256 of the sorted value ids joined by '|'.
// It does not depend on the order the ids are passed in.
func CombinationKey(valueIDs []string) string {
	sorted := append([]string(nil), valueIDs...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "|")))
	return hex.EncodeToString(sum[:])
}

// SKU builds PREFIX-XXXXXXXX from the first eight hex digits of the key.
func SKU(prefix, combinationKey string) string {
	return prefix + "-" + strings.ToUpper(combinationKey[:8])
}

func normalizePrefix(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return DefaultSKUPrefix
	}
	return prefix
}

// normalizeCodes trims the codes and drops repeats, keeping first occurrence.
func normalizeCodes(codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, &ValidationError{Message: "optionCodes must not be empty"}
	}
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, &ValidationError{Message: "optionCodes must not contain blank codes"}
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(Result, error, time.Duration) {}
