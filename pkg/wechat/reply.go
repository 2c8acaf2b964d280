// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package wechat

import (
	"encoding/xml"
	"fmt"
	"time"
)

const (
	SavedContent  = "✅ 已保存"
	FailedContent = "❌ 保存失败，稍后再试"
)

// CDATA wraps a value that must be written as <![CDATA[...]]>. encoding/xml
// only honours ",cdata" on an unnamed field, hence the nested type.
type CDATA struct {
	Value string `xml:",cdata"`
}

// TextReply is the passive text reply envelope.
type TextReply struct {
	XMLName      xml.Name `xml:"xml"`
	ToUserName   CDATA    `xml:"ToUserName"`
	FromUserName CDATA    `xml:"FromUserName"`
	CreateTime   int64    `xml:"CreateTime"`
	MsgType      CDATA    `xml:"MsgType"`
	Content      CDATA    `xml:"Content"`
}

// NewTextReply addresses a text reply from the official account to toUser.
// toUser may be empty when the inbound sender could not be decoded.
func NewTextReply(toUser, fromAccount, content string, now time.Time) TextReply {
	return TextReply{
		ToUserName:   CDATA{toUser},
		FromUserName: CDATA{fromAccount},
		CreateTime:   now.Unix(),
		MsgType:      CDATA{"text"},
		Content:      CDATA{content},
	}
}

// Marshal renders the envelope as the XML body WeChat expects.
func (r TextReply) Marshal() ([]byte, error) {
	data, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reply: %w", err)
	}
	return data, nil
}
