// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package epg

// mapParentalRating converts a raw DVB parental_rating descriptor byte to
// a minimum-age rating, <ETSI EN 300 468> <table D.1>:
// 0x01..0x0F means "minimum age = rating + 3"; 0x11/0x12/0x13 are the
// broadcaster conventions for 10/12/16; anything else (0x00, 0x10,
// 0x14..0xFF) is unrated.
func mapParentalRating(raw uint8) uint8 {
	switch {
	case raw >= 0x01 && raw <= 0x0F:
		return raw + 3
	case raw == 0x11:
		return 10
	case raw == 0x12:
		return 12
	case raw == 0x13:
		return 16
	default:
		return 0
	}
}
