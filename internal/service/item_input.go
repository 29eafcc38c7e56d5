package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

// ItemInput 原始请求体。字段保持未解码状态，以区分“缺省/null”与“提供了但类型不对”。
type ItemInput struct {
	Name        json.RawMessage `json:"name"`
	Price       json.RawMessage `json:"price"`
	Description json.RawMessage `json:"description"`
	ImageURL    json.RawMessage `json:"imageUrl"`
	Category    json.RawMessage `json:"category"`
	Stock       json.RawMessage `json:"stock"`
}

// present null 与缺省等价
func present(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && !bytes.Equal(t, []byte("null"))
}

// text 字符串字段，去首尾空白
func text(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func requiredText(raw json.RawMessage) (string, bool) {
	s, ok := text(raw)
	return s, ok && s != ""
}

// price 只接受有限且非负的 JSON 数字
func price(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// imageURLs 单个字符串或字符串数组，去空后至少一项
func imageURLs(raw json.RawMessage) ([]string, bool) {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		one = strings.TrimSpace(one)
		if one == "" {
			return nil, false
		}
		return []string{one}, true
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(many))
	for _, u := range many {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out, len(out) > 0
}

// stock 宽松转换：数字截断取整，数字字符串按数字处理，其余为 0；负数归零
func stock(raw json.RawMessage) int {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Trunc(f))
}

// ForCreate 校验必填字段，返回待写入的商品
func (in ItemInput) ForCreate() (*domain.Item, error) {
	var bad []string
	it := &domain.Item{}
	var ok bool

	if it.Name, ok = requiredText(in.Name); !ok {
		bad = append(bad, "name")
	}
	if it.Price, ok = price(in.Price); !present(in.Price) || !ok {
		bad = append(bad, "price")
	}
	if it.Description, ok = requiredText(in.Description); !ok {
		bad = append(bad, "description")
	}
	if it.ImageURLs, ok = imageURLs(in.ImageURL); !present(in.ImageURL) || !ok {
		bad = append(bad, "imageUrl")
	}
	if present(in.Category) {
		if it.Category, ok = text(in.Category); !ok {
			bad = append(bad, "category")
		}
	}
	if len(bad) > 0 {
		return nil, &domain.ValidationError{Fields: bad}
	}
	if present(in.Stock) {
		it.Stock = stock(in.Stock)
	}
	return it, nil
}

// ForUpdate 只校验出现的字段；null 视为未提供
func (in ItemInput) ForUpdate() (domain.ItemPatch, error) {
	var (
		p   domain.ItemPatch
		bad []string
	)
	if present(in.Name) {
		if s, ok := requiredText(in.Name); ok {
			p.Name = &s
		} else {
			bad = append(bad, "name")
		}
	}
	if present(in.Price) {
		if f, ok := price(in.Price); ok {
			p.Price = &f
		} else {
			bad = append(bad, "price")
		}
	}
	if present(in.Description) {
		if s, ok := requiredText(in.Description); ok {
			p.Description = &s
		} else {
			bad = append(bad, "description")
		}
	}
	if present(in.ImageURL) {
		if urls, ok := imageURLs(in.ImageURL); ok {
			p.ImageURLs = urls
		} else {
			bad = append(bad, "imageUrl")
		}
	}
	if present(in.Category) {
		if s, ok := text(in.Category); ok {
			p.Category = &s
		} else {
			bad = append(bad, "category")
		}
	}
	if present(in.Stock) {
		n := stock(in.Stock)
		p.Stock = &n
	}
	if len(bad) > 0 {
		return domain.ItemPatch{}, &domain.ValidationError{Fields: bad}
	}
	return p, nil
}
