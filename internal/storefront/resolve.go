package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/John-Robertt/extname/internal/domain"
)

var (
	// ErrNotFound 表示所有候选商店都没能给出名称。消息即对外的哨兵文本。
	ErrNotFound = errors.New(domain.NameNotFound)
	// ErrElementMissing 表示页面抓取成功，但缺少承载名称的元素（或元素为空）。
	ErrElementMissing = errors.New("页面中未找到名称元素")
)

const (
	StageFetch = "fetch"
	StageParse = "parse"
	StageOK    = "ok"
)

// Attempt 记录一次商店尝试（用于日志解释回退原因）。
type Attempt struct {
	Store   domain.Store
	Stage   string // StageFetch / StageParse / StageOK
	PageURL string
	Err     error // nil when Stage==StageOK
}

// Error 是某个商店某一阶段的可追溯错误。
type Error struct {
	Store domain.Store
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store=%s stage=%s: %v", e.Store.Key(), e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CandidateOrder 按 browser 提示给出候选商店顺序：
// - Chrome：仅 Chrome
// - Edge：仅 Edge
// - 空：Chrome 在前，Edge 在后
func CandidateOrder(hint domain.Store) ([]domain.Store, error) {
	switch hint {
	case domain.StoreChrome:
		return []domain.Store{domain.StoreChrome}, nil
	case domain.StoreEdge:
		return []domain.Store{domain.StoreEdge}, nil
	case "":
		return []domain.Store{domain.StoreChrome, domain.StoreEdge}, nil
	default:
		return nil, fmt.Errorf("未知 browser：%q", hint)
	}
}

// Resolve 依次尝试候选商店，返回第一个成功的 (name, store)。
// 全部失败时返回的 error 满足 errors.Is(err, ErrNotFound)。
func Resolve(ctx context.Context, reg Registry, id domain.ExtensionID, hint domain.Store, c *resty.Client) (domain.Resolution, error) {
	res, _, err := ResolveTrace(ctx, reg, id, hint, c)
	return res, err
}

// ResolveTrace 与 Resolve 相同，但额外返回每个商店的尝试轨迹。
func ResolveTrace(ctx context.Context, reg Registry, id domain.ExtensionID, hint domain.Store, c *resty.Client) (domain.Resolution, []Attempt, error) {
	if id == "" {
		return domain.Resolution{}, nil, fmt.Errorf("extension id 不能为空")
	}
	order, err := CandidateOrder(hint)
	if err != nil {
		return domain.Resolution{}, nil, err
	}

	var (
		attempts = make([]Attempt, 0, len(order))
		lastErr  error
	)
	for _, s := range order {
		f, ok := reg.Get(s)
		if !ok {
			lastErr = &Error{Store: s, Stage: StageFetch, Err: fmt.Errorf("storefront 未注册：%q", s)}
			attempts = append(attempts, Attempt{Store: s, Stage: StageFetch, Err: lastErr})
			continue
		}

		html, pageURL, ferr := f.Fetch(ctx, id, c)
		if ferr != nil {
			lastErr = &Error{Store: s, Stage: StageFetch, Err: ferr}
			attempts = append(attempts, Attempt{Store: s, Stage: StageFetch, PageURL: pageURL, Err: ferr})
			continue
		}

		name, perr := f.Parse(html)
		if perr != nil {
			lastErr = &Error{Store: s, Stage: StageParse, Err: perr}
			attempts = append(attempts, Attempt{Store: s, Stage: StageParse, PageURL: pageURL, Err: perr})
			continue
		}

		attempts = append(attempts, Attempt{Store: s, Stage: StageOK, PageURL: pageURL})
		return domain.Resolution{Name: name, Store: s}, attempts, nil
	}

	if lastErr == nil {
		return domain.Resolution{}, attempts, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return domain.Resolution{}, attempts, fmt.Errorf("%w: %s: %w", ErrNotFound, id, lastErr)
}
