package bwctrl

import (
	"io"
	"time"

	"github.com/juju/ratelimit"
	"github.com/rs/zerolog/log"
)

// BandwidthController 用于调控读写带宽
type BandwidthController struct {
	quota  int64
	bucket *ratelimit.Bucket
}

// NewBandwidthController 返回BandwidthController实例.
// Max(bytes/s) == quota, quota <= 0 表示不限速.
func NewBandwidthController(quota int64) *BandwidthController {
	ctrl := BandwidthController{}
	if quota <= 0 {
		return &ctrl
	}
	ctrl.quota = quota
	// 桶容量为1秒的配额, 允许1秒内的突发.
	ctrl.bucket = ratelimit.NewBucketWithRate(float64(quota), quota)
	return &ctrl
}

// Unlimited 是否不限速.
func (ctrl *BandwidthController) Unlimited() bool {
	return ctrl.bucket == nil
}

// Reader 返回限速的Reader.
func (ctrl *BandwidthController) Reader(r io.Reader) io.Reader {
	if ctrl.bucket == nil {
		return r
	}
	return ratelimit.Reader(r, ctrl.bucket)
}

// Writer 返回限速的Writer.
func (ctrl *BandwidthController) Writer(w io.Writer) io.Writer {
	if ctrl.bucket == nil {
		return w
	}
	return ratelimit.Writer(w, ctrl.bucket)
}

// TakeX 从桶中取x个令牌(字节), 如果当前无可用令牌, 等待直到出现可用令牌.
func (ctrl *BandwidthController) TakeX(x int64) {
	if ctrl.bucket == nil {
		return
	}
	waitUntilAvailable := ctrl.bucket.Take(x)
	if waitUntilAvailable != 0 {
		log.Debug().Msgf("bandwidth quota %d B/s exceeds, wait %s until resource turns to be available", ctrl.quota, waitUntilAvailable.String())
		time.Sleep(waitUntilAvailable)
	}
}
