package main

import (
	"bytes"
	"testing"

	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	subaccountKind, subaccountValue = string(address.KindHex), ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "aaaaa-aa", "--subaccount", "01")
	require.NoError(t, err)
	assert.Contains(t, out, "Principal: aaaaa-aa")
	assert.Contains(t, out, "(hex)")

	_, err = run(t, "parse", "abc.def")
	assert.ErrorIs(t, err, address.ErrInvalidFormat)
}

func TestEncodeCommand(t *testing.T) {
	out, err := run(t, "encode", "ryjl3-tyaaa-aaaaa-aaaba-cai", "--subaccount", "1")
	require.NoError(t, err)
	assert.Equal(t, "ryjl3-tyaaa-aaaaa-aaaba-cai-yvk7a6i.1\n", out)
}

func TestAccountIdCommand(t *testing.T) {
	out, err := run(t, "account-id", "2vxsx-fae")
	require.NoError(t, err)
	assert.Equal(t, "1c7a48ba6a562aa9eaa2481a9049cdf0433b9738c992d698c31d8abf89cadc79\n", out)
}

func TestSplitShellLine(t *testing.T) {
	text, in := splitShellLine("aaaaa-aa")
	assert.Equal(t, "aaaaa-aa", text)
	assert.Nil(t, in)

	text, in = splitShellLine("aaaaa-aa bytes:1,2")
	assert.Equal(t, "aaaaa-aa", text)
	assert.Equal(t, &address.SubaccountInput{Kind: address.KindBytes, Value: "1,2"}, in)

	_, in = splitShellLine("aaaaa-aa ff")
	assert.Equal(t, &address.SubaccountInput{Kind: address.KindHex, Value: "ff"}, in)
}
