// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Command secp256k1cli is a thin demonstration wrapper around the
// secp256k1/secec package: key generation, signing, verification, and
// ECDH, all driven from the command line for manual testing and
// interop checks against other implementations.
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/strand-crypto/secp256k1"
	"github.com/strand-crypto/secp256k1/secec"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "genkey":
		err = cmdGenKey(os.Args[2:])
	case "pubkey":
		err = cmdPubKey(os.Args[2:])
	case "sign":
		err = cmdSign(os.Args[2:])
	case "verify":
		err = cmdVerify(os.Args[2:])
	case "ecdh":
		err = cmdECDH(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "secp256k1cli: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: secp256k1cli <genkey|pubkey|sign|verify|ecdh> [flags]")
}

func cmdGenKey(args []string) error {
	fs := flag.NewFlagSet("genkey", flag.ExitOnError)
	fs.Parse(args)

	priv, err := secec.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	fmt.Println(hex.EncodeToString(priv.Bytes()))
	return nil
}

func cmdPubKey(args []string) error {
	fs := flag.NewFlagSet("pubkey", flag.ExitOnError)
	keyHex := fs.String("key", "", "private key, hex-encoded")
	compressed := fs.Bool("compressed", true, "emit the compressed SEC 1 encoding")
	fs.Parse(args)

	priv, err := parsePrivateKey(*keyHex)
	if err != nil {
		return err
	}

	pub := priv.PublicKey()
	if *compressed {
		fmt.Println(hex.EncodeToString(pub.CompressedBytes()))
	} else {
		fmt.Println(hex.EncodeToString(pub.Bytes()))
	}
	return nil
}

func cmdSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	keyHex := fs.String("key", "", "private key, hex-encoded")
	msg := fs.String("msg", "", "message to sign (hashed with SHA-256 before signing)")
	der := fs.Bool("der", false, "emit the DER (ASN.1) encoding instead of compact [R|S|V]")
	auxRand := fs.Bool("aux-rand", false, "mix fresh randomness into the RFC 6979 nonce derivation")
	fs.Parse(args)

	priv, err := parsePrivateKey(*keyHex)
	if err != nil {
		return err
	}

	hash := sha256.Sum256([]byte(*msg))

	var r, s *secp256k1.Scalar
	var recoveryID byte
	if *auxRand {
		r, s, recoveryID, err = priv.SignWithAuxRand(rand.Reader, hash[:])
	} else {
		r, s, recoveryID, err = priv.Sign(hash[:])
	}
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	if *der {
		fmt.Println(hex.EncodeToString(secec.BuildASN1Signature(r, s)))
		return nil
	}

	fmt.Println(hex.EncodeToString(secec.BuildCompactRecoverableSignature(r, s, recoveryID)))
	return nil
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	pubHex := fs.String("pub", "", "public key, hex-encoded (compressed or uncompressed)")
	msg := fs.String("msg", "", "message that was signed (hashed with SHA-256 before verifying)")
	sigHex := fs.String("sig", "", "signature, hex-encoded (compact [R|S], [R|S|V], or DER)")
	der := fs.Bool("der", false, "parse -sig as a DER (ASN.1) signature instead of compact")
	fs.Parse(args)

	pubBytes, err := hex.DecodeString(*pubHex)
	if err != nil {
		return fmt.Errorf("decode -pub: %w", err)
	}
	pub, err := secec.NewPublicKey(pubBytes)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}

	sigBytes, err := hex.DecodeString(*sigHex)
	if err != nil {
		return fmt.Errorf("decode -sig: %w", err)
	}

	hash := sha256.Sum256([]byte(*msg))

	var ok bool
	if *der {
		ok = pub.VerifyASN1(hash[:], sigBytes)
	} else {
		r, s, err := compactScalars(sigBytes)
		if err != nil {
			return err
		}
		ok = pub.Verify(hash[:], r, s)
	}

	if !ok {
		fmt.Println("INVALID")
		os.Exit(1)
	}
	fmt.Println("OK")
	return nil
}

func cmdECDH(args []string) error {
	fs := flag.NewFlagSet("ecdh", flag.ExitOnError)
	keyHex := fs.String("key", "", "our private key, hex-encoded")
	peerHex := fs.String("peer", "", "peer's public key, hex-encoded")
	full := fs.Bool("full", false, "emit the full SEC 1 point encoding (GetSharedSecret) instead of the x-only convention (ECDH)")
	compressed := fs.Bool("compressed", true, "with -full, emit the compressed SEC 1 encoding")
	fs.Parse(args)

	priv, err := parsePrivateKey(*keyHex)
	if err != nil {
		return err
	}

	peerBytes, err := hex.DecodeString(*peerHex)
	if err != nil {
		return fmt.Errorf("decode -peer: %w", err)
	}
	peer, err := secec.NewPublicKey(peerBytes)
	if err != nil {
		return fmt.Errorf("parse peer public key: %w", err)
	}

	var secret []byte
	if *full {
		secret, err = priv.GetSharedSecret(peer, *compressed)
	} else {
		secret, err = priv.ECDH(peer)
	}
	if err != nil {
		return fmt.Errorf("ecdh: %w", err)
	}

	fmt.Println(hex.EncodeToString(secret))
	return nil
}

func parsePrivateKey(keyHex string) (*secec.PrivateKey, error) {
	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode -key: %w", err)
	}
	priv, err := secec.NewPrivateKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return priv, nil
}

// compactScalars parses either the recoverable `[R|S|V]` or plain
// `[R|S]` compact signature encoding, discarding the recovery byte if
// present.
func compactScalars(sig []byte) (*secp256k1.Scalar, *secp256k1.Scalar, error) {
	if len(sig) == secec.CompactRecoverableSignatureSize {
		r, s, _, err := secec.ParseCompactRecoverableSignature(sig)
		return r, s, err
	}
	return secec.ParseCompactSignature(sig)
}
