// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

// caseline-demo is a reference backend exposing the case-provisioning
// workflow over REST: create a case with its chat room and participants,
// add participants, mint client chat tokens, and tear rooms and user
// accounts down again.
package main
