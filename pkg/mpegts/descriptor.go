// Copyright 2023, Chef.  All rights reserved.
// https://github.com/q191201771/lal
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package mpegts

import (
	"github.com/q191201771/naza/pkg/nazabits"
)

// Descriptor is a decoded EIT event descriptor. Tag selects which of the
// typed fields below was populated; the others are left at their zero
// value, mirroring how this package's PAT/PMT element descriptors carry one
// payload per tag.
type Descriptor struct {
	Tag    uint8
	Length uint8
	Raw    []byte // full payload, kept for tags this package doesn't interpret

	ShortEvent       DescriptorShortEvent
	ExtendedEvent    DescriptorExtendedEvent
	Content          DescriptorContent
	ParentalRating   DescriptorParentalRating
	Linkage          DescriptorLinkage
	TimeShiftedEvent DescriptorTimeShiftedEvent
	Component        DescriptorComponent
	Pdc              DescriptorPdc
}

// DescriptorShortEvent, tag 0x4D.
// ISO_639_language_code [24b] event_name_length [8b] event_name_char []
// text_length [8b] text_char []
type DescriptorShortEvent struct {
	LanguageCode string
	EventName    []byte
	Text         []byte
}

// DescriptorExtendedEventItem is one (description, item) pair inside an
// extended event descriptor, e.g. ("Director", "Jane Doe").
type DescriptorExtendedEventItem struct {
	Description []byte
	Item        []byte
}

// DescriptorExtendedEvent, tag 0x4E.
type DescriptorExtendedEvent struct {
	DescriptorNumber     uint8
	LastDescriptorNumber uint8
	LanguageCode         string
	Items                []DescriptorExtendedEventItem
	Text                 []byte
}

// DescriptorContentEntry is one (contentNibbleLevel1, contentNibbleLevel2,
// userByte) triple from a content descriptor's genre loop.
type DescriptorContentEntry struct {
	Nibble1  uint8
	Nibble2  uint8
	UserByte uint8
}

// DescriptorContent, tag 0x54.
type DescriptorContent struct {
	Entries []DescriptorContentEntry
}

// DescriptorParentalRatingEntry is one (country, rawRating) pair.
type DescriptorParentalRatingEntry struct {
	CountryCode string
	Rating      uint8
}

// DescriptorParentalRating, tag 0x55.
type DescriptorParentalRating struct {
	Entries []DescriptorParentalRatingEntry
}

// DescriptorLinkage, tag 0x4A. LinkageType 0xB0 is the unstandardized
// "Premiere World" convention spec.md documents: PrivateData carries a
// channel name in an encoding the descriptor itself does not specify.
type DescriptorLinkage struct {
	TransportStreamId uint16
	OriginalNetworkId uint16
	ServiceId         uint16
	LinkageType       uint8
	PrivateData       []byte
}

// DescriptorTimeShiftedEvent, tag 0x4F.
type DescriptorTimeShiftedEvent struct {
	ReferenceServiceId uint16
	ReferenceEventId   uint16
}

// DescriptorComponent, tag 0x50. StreamContentExt occupies the upper
// nibble alongside StreamContentExt handling for stream_content==9,
// matching spec.md's "encode ext into the upper nibble" rule.
type DescriptorComponent struct {
	StreamContentExt uint8
	StreamContent    uint8
	ComponentType    uint8
	ComponentTag     uint8
	LanguageCode     string
	Text             []byte
}

// DescriptorPdc, tag 0x69. ProgrammeIdentificationLabel packs
// day(5)/month(4)/hour(5)/minute(6) into 20 bits.
type DescriptorPdc struct {
	Day    uint8
	Month  uint8
	Hour   uint8
	Minute uint8
}

// ParseDescriptorLoop walks a sequence of (tag, length, payload) entries
// until b is exhausted, dispatching recognized tags to their typed parser.
func ParseDescriptorLoop(b []byte) (ds []Descriptor) {
	for len(b) >= 2 {
		tag := b[0]
		length := b[1]
		if len(b) < 2+int(length) {
			break
		}
		payload := b[2 : 2+int(length)]
		ds = append(ds, parseDescriptor(tag, length, payload))
		b = b[2+int(length):]
	}
	return
}

func parseDescriptor(tag, length uint8, payload []byte) (d Descriptor) {
	d.Tag = tag
	d.Length = length
	d.Raw = payload

	switch tag {
	case DescriptorTagShortEvent:
		d.ShortEvent = parseDescriptorShortEvent(payload)
	case DescriptorTagExtendedEvent:
		d.ExtendedEvent = parseDescriptorExtendedEvent(payload)
	case DescriptorTagContent:
		d.Content = parseDescriptorContent(payload)
	case DescriptorTagParentalRating:
		d.ParentalRating = parseDescriptorParentalRating(payload)
	case DescriptorTagLinkage:
		d.Linkage = parseDescriptorLinkage(payload)
	case DescriptorTagTimeShiftedEvent:
		d.TimeShiftedEvent = parseDescriptorTimeShiftedEvent(payload)
	case DescriptorTagComponent:
		d.Component = parseDescriptorComponent(payload)
	case DescriptorTagPdc:
		d.Pdc = parseDescriptorPdc(payload)
	}
	return
}

func parseDescriptorShortEvent(b []byte) (d DescriptorShortEvent) {
	if len(b) < 4 {
		return
	}
	d.LanguageCode = string(b[0:3])
	nameLen := int(b[3])
	if 4+nameLen > len(b) {
		return
	}
	d.EventName = b[4 : 4+nameLen]
	rest := b[4+nameLen:]
	if len(rest) < 1 {
		return
	}
	textLen := int(rest[0])
	if 1+textLen > len(rest) {
		return
	}
	d.Text = rest[1 : 1+textLen]
	return
}

func parseDescriptorExtendedEvent(b []byte) (d DescriptorExtendedEvent) {
	br := nazabits.NewBitReader(b)
	dn, _ := br.ReadBits8(4)
	ldn, _ := br.ReadBits8(4)
	lang, _ := br.ReadBytes(3)
	itemsLen, _ := br.ReadBits8(8)
	d.DescriptorNumber = dn
	d.LastDescriptorNumber = ldn
	d.LanguageCode = string(lang)

	itemsRaw, _ := br.ReadBytes(uint(itemsLen))
	for len(itemsRaw) > 0 {
		descLen := int(itemsRaw[0])
		if 1+descLen > len(itemsRaw) {
			break
		}
		description := itemsRaw[1 : 1+descLen]
		rest := itemsRaw[1+descLen:]
		if len(rest) < 1 {
			break
		}
		itemLen := int(rest[0])
		if 1+itemLen > len(rest) {
			break
		}
		item := rest[1 : 1+itemLen]
		d.Items = append(d.Items, DescriptorExtendedEventItem{Description: description, Item: item})
		itemsRaw = rest[1+itemLen:]
	}

	textLen, _ := br.ReadBits8(8)
	d.Text, _ = br.ReadBytes(uint(textLen))
	return
}

func parseDescriptorContent(b []byte) (d DescriptorContent) {
	for i := 0; i+1 < len(b); i += 2 {
		d.Entries = append(d.Entries, DescriptorContentEntry{
			Nibble1:  b[i] >> 4,
			Nibble2:  b[i] & 0x0f,
			UserByte: b[i+1],
		})
	}
	return
}

func parseDescriptorParentalRating(b []byte) (d DescriptorParentalRating) {
	for i := 0; i+3 < len(b); i += 4 {
		d.Entries = append(d.Entries, DescriptorParentalRatingEntry{
			CountryCode: string(b[i : i+3]),
			Rating:      b[i+3],
		})
	}
	return
}

func parseDescriptorLinkage(b []byte) (d DescriptorLinkage) {
	if len(b) < 7 {
		return
	}
	d.TransportStreamId = uint16(b[0])<<8 | uint16(b[1])
	d.OriginalNetworkId = uint16(b[2])<<8 | uint16(b[3])
	d.ServiceId = uint16(b[4])<<8 | uint16(b[5])
	d.LinkageType = b[6]
	d.PrivateData = b[7:]
	return
}

func parseDescriptorTimeShiftedEvent(b []byte) (d DescriptorTimeShiftedEvent) {
	if len(b) < 4 {
		return
	}
	d.ReferenceServiceId = uint16(b[0])<<8 | uint16(b[1])
	d.ReferenceEventId = uint16(b[2])<<8 | uint16(b[3])
	return
}

func parseDescriptorComponent(b []byte) (d DescriptorComponent) {
	if len(b) < 6 {
		return
	}
	d.StreamContentExt = b[0] >> 4
	d.StreamContent = b[0] & 0x0f
	d.ComponentType = b[1]
	d.ComponentTag = b[2]
	d.LanguageCode = string(b[3:6])
	d.Text = b[6:]
	return
}

func parseDescriptorPdc(b []byte) (d DescriptorPdc) {
	if len(b) < 3 {
		return
	}
	br := nazabits.NewBitReader(b)
	_, _ = br.ReadBits8(4)
	d.Day, _ = br.ReadBits8(5)
	d.Month, _ = br.ReadBits8(4)
	d.Hour, _ = br.ReadBits8(5)
	d.Minute, _ = br.ReadBits8(6)
	return
}
