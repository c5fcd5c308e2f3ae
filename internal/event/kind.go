// SPDX-License-Identifier: MIT

package event

// Kind is one of the fixed failure categories tracked by the anomaly detector.
type Kind string

const (
	// KindTimeout: timeout while the Live API processed a webhook.
	KindTimeout Kind = "TIMEOUT"
	// KindAPIError: API error while the Live API processed a webhook.
	KindAPIError Kind = "API_ERROR"
	// KindLiveAPIDBOverload: video generation failed at dubbing/audio, Live API DB overload.
	KindLiveAPIDBOverload Kind = "LIVE_API_DB_OVERLOAD"
	// KindYTDownloadFail: YouTube URL download failed.
	KindYTDownloadFail Kind = "YT_DOWNLOAD_FAIL"
	// KindYTExternalFail: upload failed for external reasons (video file upload).
	KindYTExternalFail Kind = "YT_EXTERNAL_FAIL"
)

// Kinds lists every known kind, in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindTimeout,
		KindAPIError,
		KindLiveAPIDBOverload,
		KindYTDownloadFail,
		KindYTExternalFail,
	}
}
