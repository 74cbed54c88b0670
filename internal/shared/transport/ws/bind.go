package ws

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

var ErrEmptyBody = errors.New("ws request body is nil")

// Bind 把 Body.Msg（json 解出的 map）按 json 标签解码到 dst。
// 数字在 json 里一律是 float64，开弱类型才能落到 int/int64 字段上。
func Bind(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return ErrEmptyBody
	}
	if req.Body.Msg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(req.Body.Msg); err != nil {
		return fmt.Errorf("bind %s: %w", req.Body.Name, err)
	}
	return nil
}
