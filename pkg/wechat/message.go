// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package wechat

import (
	"encoding/xml"
	"errors"
	"fmt"
)

// ErrMalformedInbound marks an inbound body that could not be decoded into a message.
var ErrMalformedInbound = errors.New("malformed inbound message")

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageLink  MessageType = "link"
	MessageOther MessageType = "other"
)

const (
	imageMarker = "[图片]"
	linkMarker  = "[链接]"
)

// XMLMessage is the passive-callback envelope WeChat posts to the server.
type XMLMessage struct {
	XMLName      xml.Name `xml:"xml"`
	ToUserName   string   `xml:"ToUserName"`
	FromUserName string   `xml:"FromUserName"`
	CreateTime   int64    `xml:"CreateTime"`
	MsgType      string   `xml:"MsgType"`
	Content      string   `xml:"Content"`
	MsgId        string   `xml:"MsgId"`
	PicUrl       string   `xml:"PicUrl"`
	MediaId      string   `xml:"MediaId"`
	Title        string   `xml:"Title"`
	Description  string   `xml:"Description"`
	Url          string   `xml:"Url"`
	Event        string   `xml:"Event"`
}

// InboundMessage is the normalized form of one delivery.
type InboundMessage struct {
	Type       MessageType
	RawType    string
	RawContent string
	SenderID   string
	MsgID      string
}

// ParseInbound decodes a callback body. When decoding fails after the sender
// is known, the returned message still carries SenderID so a reply can be
// addressed.
func ParseInbound(body []byte) (InboundMessage, error) {
	var raw XMLMessage
	if err := xml.Unmarshal(body, &raw); err != nil {
		return InboundMessage{SenderID: raw.FromUserName}, fmt.Errorf("%w: %v", ErrMalformedInbound, err)
	}

	msg := InboundMessage{
		RawType:  raw.MsgType,
		SenderID: raw.FromUserName,
		MsgID:    raw.MsgId,
	}

	if raw.FromUserName == "" {
		return msg, fmt.Errorf("%w: missing FromUserName", ErrMalformedInbound)
	}
	if raw.MsgType == "" {
		return msg, fmt.Errorf("%w: missing MsgType", ErrMalformedInbound)
	}

	switch raw.MsgType {
	case "text":
		msg.Type = MessageText
		msg.RawContent = raw.Content
	case "image":
		// image bytes are never downloaded, the URL is enough
		msg.Type = MessageImage
		msg.RawContent = imageMarker + " " + raw.PicUrl
	case "link":
		msg.Type = MessageLink
		msg.RawContent = linkMarker + " " + raw.Url
	default:
		msg.Type = MessageOther
		msg.RawContent = UnsupportedMarker(raw.MsgType)
	}

	return msg, nil
}

func UnsupportedMarker(msgType string) string {
	return fmt.Sprintf("[暂不支持 %s 类型]", msgType)
}
