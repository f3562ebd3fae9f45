// Copyright 2025 The Vault AI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package prompt

import "github.com/pkoukk/tiktoken-go"

// TokenizerModel is the model whose encoding sizes the prompt budget.
const TokenizerModel = "davinci"

// TokenCounter counts tokens the way the target language model does.
type TokenCounter interface {
	CountTokens(text string) int
}

// TiktokenCounter counts tokens with the BPE encoding of TokenizerModel.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

var _ TokenCounter = (*TiktokenCounter)(nil)

// NewTiktokenCounter loads the encoding for TokenizerModel.
func NewTiktokenCounter() (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(TokenizerModel)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

func (c *TiktokenCounter) CountTokens(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}
